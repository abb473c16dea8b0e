// Package client provides a Go client for the capture proxy Data API.
//
// The capture proxy records HTTP traffic into sessions; each session holds an
// ordered list of entries (one per HTTP transaction). Bodies are returned
// base64-encoded; use [DecodeBody] to obtain the raw bytes.
//
// Basic usage:
//
//	c := client.New(client.WithBaseURL("http://localhost:7777"))
//	session, err := c.GetSession(ctx, "active")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, id := range session.EntryIDs {
//	    entry, err := c.GetEntry(ctx, session.ID, id)
//	    ...
//	}
package client
