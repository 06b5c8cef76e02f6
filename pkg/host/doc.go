// Package host serves toast surfaces to browsers.
//
// A Hub is the toast.Mounter handed to the service: it renders every
// surface with toastui and broadcasts mount, render and unmount patches to
// subscribed clients. Host exposes the hub and the service over HTTP:
//
//	GET  /                              page with the client script
//	GET  /ws                            WebSocket patch stream and interaction input
//	GET  /sse                           datastar element patch stream
//	POST /api/toasts                    show a toast
//	GET  /api/toasts/count              active toasts and mounted containers
//	GET  /api/toasts/{id}               describe a live toast
//	POST /api/toasts/{id}/dismiss       dismiss a toast
//	POST /api/toasts/{id}/events/{name} deliver an interaction
//	POST /api/toasts/dismiss-all        dismiss every toast
//	GET  /metrics                       Prometheus metrics, when configured
//
// Handlers never touch the service directly; they run closures on the toast
// event loop through Loop.Do and fail with T008 when the loop does not answer
// within the request timeout.
package host
