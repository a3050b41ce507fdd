// Package api exposes the scheduler over HTTP. It decodes and validates
// requests, calls scheduler.Service, and maps service errors to status codes
// without leaking internal details.
package api
