// Package flock provides cross-platform advisory file locks.
//
// Exclusive and Unlock are the non-blocking platform primitives. Acquire
// layers a retry loop with a deadline on top of them:
//
//	lock, err := flock.Acquire(ctx, path+".lock", flock.DefaultTimeout)
//	if err != nil {
//	    return err // errors.ErrLockTimeout when another process holds it
//	}
//	defer func() { _ = lock.Release() }()
package flock
