// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package permission decides whether reading local content needs a runtime
// storage permission and issues the request when it does.
package permission

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

const (
	// MinRuntimePermissionSDK is the first platform version that enforces
	// runtime permission grants.
	MinRuntimePermissionSDK = 23
	// StorageRequestCode identifies the storage-read request and its result.
	StorageRequestCode = 0
)

// Checker reports whether storage-read permission is already granted.
type Checker interface {
	StorageReadGranted() bool
}

// Requester issues an asynchronous permission request. The answer arrives
// later as a Result carrying the same request code.
type Requester interface {
	RequestStorageRead(requestCode int) error
}

// Result is the asynchronous answer to a permission request.
type Result struct {
	RequestCode int
	Granted     bool
}

// IsLocalFileURI reports whether uri addresses local storage.
func IsLocalFileURI(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "" || scheme == "file"
}

// Required is the pure gate decision.
func Required(uri string, sdkVersion int, granted bool) bool {
	return sdkVersion >= MinRuntimePermissionSDK && IsLocalFileURI(uri) && !granted
}

// Gate binds the decision to the platform's checker and requester.
type Gate struct {
	SDKVersion int
	Checker    Checker
	Requester  Requester
}

// Required reports whether uri needs a permission request before preparing.
func (g *Gate) Required(uri string) bool {
	granted := g.Checker == nil || g.Checker.StorageReadGranted()
	return Required(uri, g.SDKVersion, granted)
}

// MaybeRequest issues the storage request when required and reports whether
// it did. Preparation must wait for the Result when it returns true.
func (g *Gate) MaybeRequest(uri string) (bool, error) {
	if !g.Required(uri) {
		return false, nil
	}
	if g.Requester == nil {
		return false, fmt.Errorf("storage permission required for %s: no requester configured", uri)
	}
	if err := g.Requester.RequestStorageRead(StorageRequestCode); err != nil {
		return false, fmt.Errorf("request storage permission: %w", err)
	}
	return true, nil
}

// StaticChecker is a Checker with a fixed answer.
type StaticChecker bool

func (c StaticChecker) StorageReadGranted() bool { return bool(c) }

// AutoResponder answers every request with a fixed decision on its own
// goroutine, the way a host dialog would answer later.
type AutoResponder struct {
	grant bool

	mu      sync.Mutex
	deliver func(Result)
	wg      sync.WaitGroup
}

// NewAutoResponder returns a responder that grants or denies every request.
func NewAutoResponder(grant bool) *AutoResponder {
	return &AutoResponder{grant: grant}
}

// Bind sets the receiver of results.
func (a *AutoResponder) Bind(deliver func(Result)) {
	a.mu.Lock()
	a.deliver = deliver
	a.mu.Unlock()
}

func (a *AutoResponder) RequestStorageRead(requestCode int) error {
	a.mu.Lock()
	deliver := a.deliver
	a.mu.Unlock()
	if deliver == nil {
		return fmt.Errorf("permission responder not bound")
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		deliver(Result{RequestCode: requestCode, Granted: a.grant})
	}()
	return nil
}

// Wait blocks until every issued answer has been delivered.
func (a *AutoResponder) Wait() {
	a.wg.Wait()
}
