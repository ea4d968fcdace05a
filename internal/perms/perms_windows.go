//go:build windows

package perms

// Normalize is a no-op on Windows, which has no execute bits.
func Normalize(string) Result {
	return Result{Failures: []Failure{}}
}
