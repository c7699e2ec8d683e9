// Package auth provides authentication and authorisation for the
// person registry API.
//
// It implements a 2-tier role model (person → admin) with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Short-lived JWT access tokens validated by signature only
//   - Static role-permission mapping (compile-time, no database lookup)
//
// Both roles may read person records; only admins may mutate them or
// manage accounts.
package auth
