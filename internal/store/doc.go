// Package store defines the [Store] interface for atomic counters and
// provides four implementations:
//
//   - [DynamoDBStore]: items in a DynamoDB table, incremented with an ADD update.
//   - [RedisStore]: Redis hashes, incremented with HINCRBY.
//   - [SQLiteStore]: rows in a SQLite table, incremented with an upsert.
//   - [MemoryStore]: process-local counters that are lost on restart.
//
// Every backend relies on a single atomic primitive of the underlying store;
// none of them reads a value, adds to it and writes it back.
//
// [Open] builds a backend from [Options].
package store
