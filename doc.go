// Package identity provides credential issuance and session verification:
// deterministic-salt password hashing, signed session tokens (JWT, HS256),
// login and registration orchestration, and helpers to attach the verified
// principal to a request context.
//
// Components:
//   - Hasher hashes passwords with argon2id using a process-wide salt and
//     verifies candidates in constant time.
//   - TokenService builds, signs, and validates time-bounded claims. The
//     signing algorithm is pinned; tokens declaring a different algorithm
//     are rejected.
//   - Auther orchestrates the store, the hasher, and the token service to
//     implement Login and Register. Login failures are indistinguishable
//     between unknown identities and wrong passwords.
//   - middleware/tokenware gates protected routes: it extracts the bearer
//     token, validates it, and attaches the resulting Principal to the
//     request context. Every rejection collapses to a single 401 response.
//
// Sessions are stateless: claims live only inside the signed token and are
// discarded after verification. The user store is an injected collaborator
// (UserStore); MemoryStore and BunStore are the bundled implementations.
package identity
