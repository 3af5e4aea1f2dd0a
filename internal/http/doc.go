// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"username","password"}. Response:
//     {"token","expires_at","principal":{"user_id","is_admin"}} with token also
//     surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the Authorization
//     header or session cookie. Returns 204 No Content and clears the cookie.
//   - GET /rooms, POST /rooms, PUT /rooms/{id}, DELETE /rooms/{id}: room catalog
//     endpoints exchanging the `roomDTO` payload defined in room_handler.go. Listing is
//     available to any authenticated principal while mutations require admin privileges.
//   - POST /rooms/{id}/book: the immediate claim flow. Body: {"team_id","duration"}
//     with duration one of 30m, 1h, 2h, 3h, day. Creates a reservation for today and
//     marks the room occupied. POST /rooms/{id}/release clears the occupancy.
//   - GET /teams, POST /teams, DELETE /teams/{id}, DELETE /teams: team roster
//     endpoints exchanging the `teamDTO` payload defined in team_handler.go.
//   - GET /reservations?date=YYYY-MM-DD&room_id=..., POST /reservations,
//     DELETE /reservations/{id}: slot range bookings exchanging the `reservationDTO`
//     payload defined in reservation_handler.go. Overlapping bookings for the same
//     room and day are rejected with 409.
//   - GET /users, POST /users/{id}/promote: administrator controlled account
//     endpoints exchanging the `userDTO` payload defined in user_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
