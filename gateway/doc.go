// Package gateway maps request envelopes onto the item store.
//
// A [Gateway] exposes three operations, each bound to one HTTP verb:
//
//	List    GET     -> 200 [item, ...]
//	Upsert  POST    -> 200 normalized item
//	Delete  DELETE  -> 200 {"id": ...}
//
// Every failure is returned as a 400 response with a JSON error payload;
// operations never return Go errors and never panic on bad input:
//
//	{"error":"invalid_method","message":"list only accepts GET method, you tried: POST"}
//	{"error":"malformed_body","message":"id is required"}
//	{"error":"store_failure","message":"...","code":"ProvisionedThroughputExceededException"}
//
// Method and body checks run before the store is touched. The gateway keeps
// no state between calls; the store client and table are injected by the
// process entry point.
//
// [Gateway.LambdaHandler] serves an operation behind an API Gateway proxy
// integration and [Gateway.HTTPHandler] serves it over net/http.
package gateway
