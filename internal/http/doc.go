// Package http provides HTTP handlers and middleware for the studio booking API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","principal":{"user_id","email","is_admin"}} with the token
//     also surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the Authorization
//     header or session cookie. Returns 204 No Content and clears the cookie.
//   - GET /bookings, POST /bookings, GET /bookings/{id}, PUT /bookings/{id},
//     DELETE /bookings/{id}: booking endpoints exchanging the `bookingDTO` payload
//     defined in dto.go. Create and update responses bundle the booking with the
//     coverage summary used to admit it. Listing accepts optional `date` and
//     `studio` query parameters.
//   - GET /bookings/{id}/history: admin-only audit trail of a booking, with
//     before/after snapshots embedded as JSON objects.
//   - GET /availability: evaluates a draft booking without persisting it. Query
//     parameters: studio, date, subject, proposal, start and optional exclude.
//   - GET /blackouts, POST /blackouts, DELETE /blackouts/{id}: studio blackout
//     windows. Mutations require admin privileges.
//   - GET /shifts, POST /shifts, PUT /shifts/{id}, DELETE /shifts/{id}: technician
//     shift grid per studio and weekday. Listing accepts optional `studio` and
//     `weekday` query parameters; mutations require admin privileges.
//   - GET /rules, POST /rules, PUT /rules/{id}, DELETE /rules/{id}: duration rules
//     keyed by subject and proposal. Mutations require admin privileges.
//   - GET /permissions, PUT /permissions, GET /permissions/{id},
//     DELETE /permissions/{id}: per-user mutation grants. A user may read their own
//     grant; everything else requires admin privileges.
//   - GET /users, POST /users, GET /users/{id}, DELETE /users/{id}: administrator
//     controlled account management.
//   - GET /fixed-slots, POST /fixed-slots, DELETE /fixed-slots/{id}: recurring slot
//     templates. POST /fixed-slots/generate materializes bookings for a date range
//     and reports skipped occurrences.
//   - GET /holidays?year=YYYY: Brazilian holiday calendar for the given year.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
