// Package database implements the content repositories on PostgreSQL via
// pgx. Composite entities (news, projects) are read and written together
// with their ordered children inside one transaction.
package database
