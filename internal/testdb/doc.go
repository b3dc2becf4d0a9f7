// Package testdb provides utilities for PostgreSQL integration tests.
//
// Tests obtain a pooled connection with GetTestDBWithT, which skips the test
// when no database URL is configured, apply the embedded schema with
// SetupTestDatabaseSchema, and run their assertions inside WithTx so every
// change is rolled back when the test completes:
//
//	db := testdb.GetTestDBWithT(t)
//	testdb.SetupTestDatabaseSchema(t, db)
//
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	    tasks := postgres.NewCollection(tx, store.TasksCollection, nil)
//	    // ...
//	})
//
// The connection string is read from DATABASE_URL, falling back to
// TASKMART_TEST_DB_URL.
package testdb
