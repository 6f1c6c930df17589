// Package testutil provides test doubles for restkit.
//
// RecordingTransport stands in for the network and keeps every request it
// was asked to send:
//
//	rt := testutil.NewRecordingTransport(testutil.JSONResponse(200, `{"id":1}`))
//	client, _ := httpclient.New(httpclient.Config{}, httpclient.WithTransport(rt))
//	...
//	req := rt.Last()
//
// InstantTimer skips mock delays while remembering them, and T(t).Setup
// starts a component for the duration of a test.
package testutil
