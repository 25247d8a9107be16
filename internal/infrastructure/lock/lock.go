// Package lock serializes stock number allocation per prefix. The Redis
// backend covers several replicas of the service, the local one a single
// process.
package lock

func keyFor(prefix string) string {
	return "acquisition:allocate:" + prefix
}
