// Package testing provides a capture server for exercising webhook
// senders in Go tests.
//
// A CaptureServer stands in for a Lark bot endpoint: it records every
// delivery, optionally verifies Lark-style signatures, and answers
// with the platform's acknowledgment. Tests point the sender at the
// server's URL and assert on what arrived.
//
// # Basic Usage
//
// Start a server, deliver to it, and inspect the capture:
//
//	func TestNotify(t *testing.T) {
//	    srv := larktest.New(t)
//
//	    // Point the sender at srv.URL() and run it...
//
//	    last := srv.Last()
//	    last.AssertField(t, "msg_type", "text")
//	    last.AssertField(t, "content.text", "deploy finished")
//	    last.AssertContentType(t, "application/json; charset=utf-8")
//	}
//
// # Signed Webhooks
//
// With a secret configured, the server verifies each delivery's
// timestamp and sign fields the way the platform does and answers
// 401 with the platform's error code on mismatch:
//
//	srv := larktest.New(t, larktest.WithSecret("s3cret"))
//
//	// ... send a signed message ...
//
//	srv.Last().AssertSigned(t)
//
// # Failure Injection
//
// Configure the response to exercise the sender's error paths:
//
//	srv := larktest.New(t,
//	    larktest.WithStatus(502),
//	    larktest.WithResponse(`{"code":500,"msg":"internal error"}`),
//	)
//
// For transport failures, call srv.Close() before sending.
//
// # Assertions
//
// Delivery exposes the raw body, the decoded JSON object, and helper
// assertions. Count and Deliveries cover multi-send scenarios:
//
//	if srv.Count() != 2 {
//	    t.Errorf("expected 2 deliveries, got %d", srv.Count())
//	}
//	for _, d := range srv.Deliveries() {
//	    d.AssertBodyContains(t, "deploy")
//	}
package testing
