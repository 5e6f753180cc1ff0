// Package resilience groups the fault tolerance helpers used around the database:
// circuitbreaker stops calling a failing database, retry waits out a database
// that is still starting.
package resilience
