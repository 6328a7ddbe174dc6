// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package renderer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	DefaultWidevineProxyURL    = "https://proxy.uat.widevine.com/proxy"
	DefaultPlayReadyLicenseURL = "https://playready.directtaps.net/pr/svc/rightsmanager.asmx"

	SchemeWidevine  = "widevine"
	SchemePlayReady = "playready"

	maxLicenseBytes = 1 << 20
)

// DrmCallback performs the network half of a DRM exchange. It is a
// pass-through: the payloads are opaque to this module.
type DrmCallback interface {
	Scheme() string
	ExecuteProvisionRequest(ctx context.Context, defaultURL string, data []byte) ([]byte, error)
	ExecuteKeyRequest(ctx context.Context, defaultURL string, data []byte) ([]byte, error)
}

// WidevineTestCallback talks to the Widevine test license proxy, keyed by
// content id and provider.
type WidevineTestCallback struct {
	client     *http.Client
	licenseURL string
}

// NewWidevineTestCallback returns a Widevine callback for one content id.
func NewWidevineTestCallback(client *http.Client, proxyURL, contentID, provider string) *WidevineTestCallback {
	q := url.Values{}
	q.Set("video_id", contentID)
	q.Set("provider", provider)
	return &WidevineTestCallback{client: client, licenseURL: proxyURL + "?" + q.Encode()}
}

func (c *WidevineTestCallback) Scheme() string { return SchemeWidevine }

// LicenseURL is the resolved key request endpoint.
func (c *WidevineTestCallback) LicenseURL() string { return c.licenseURL }

func (c *WidevineTestCallback) ExecuteProvisionRequest(ctx context.Context, defaultURL string, data []byte) ([]byte, error) {
	u := defaultURL + "&signedRequest=" + url.QueryEscape(string(data))
	return post(ctx, c.client, u, nil, nil)
}

func (c *WidevineTestCallback) ExecuteKeyRequest(ctx context.Context, defaultURL string, data []byte) ([]byte, error) {
	u := defaultURL
	if u == "" {
		u = c.licenseURL
	}
	return post(ctx, c.client, u, data, nil)
}

// PlayReadyTestCallback talks to the PlayReady test license server.
type PlayReadyTestCallback struct {
	client     *http.Client
	licenseURL string
}

// NewPlayReadyTestCallback returns a PlayReady callback.
func NewPlayReadyTestCallback(client *http.Client, licenseURL string) *PlayReadyTestCallback {
	return &PlayReadyTestCallback{client: client, licenseURL: licenseURL}
}

func (c *PlayReadyTestCallback) Scheme() string { return SchemePlayReady }

func (c *PlayReadyTestCallback) ExecuteProvisionRequest(ctx context.Context, defaultURL string, data []byte) ([]byte, error) {
	u := defaultURL + "&signedRequest=" + url.QueryEscape(string(data))
	return post(ctx, c.client, u, nil, nil)
}

func (c *PlayReadyTestCallback) ExecuteKeyRequest(ctx context.Context, defaultURL string, data []byte) ([]byte, error) {
	u := defaultURL
	if u == "" {
		u = c.licenseURL
	}
	headers := map[string]string{
		"Content-Type": "text/xml",
		"SOAPAction":   "http://schemas.microsoft.com/DRM/2007/03/protocols/AcquireLicense",
	}
	return post(ctx, c.client, u, data, headers)
}

func post(ctx context.Context, client *http.Client, u string, body []byte, headers map[string]string) ([]byte, error) {
	if client == nil {
		return nil, fmt.Errorf("drm request %s: no network client configured", u)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build drm request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drm request: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxLicenseBytes))
	if err != nil {
		return nil, fmt.Errorf("read drm response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("drm request: unexpected status %d", resp.StatusCode)
	}
	return payload, nil
}
