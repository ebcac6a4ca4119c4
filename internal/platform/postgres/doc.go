// Package postgres provides PostgreSQL implementations of the store
// interfaces, along with the embedded goose migrations that create the
// schema. Driver errors are translated to store sentinels by MapError.
package postgres
