// Package config loads toastd configuration.
//
// Values are layered: built-in defaults, then toastd.json (or the file given
// with --config), then TOASTD_ environment variables. Nested keys use a
// double underscore in the environment, so TOASTD_TOAST__POSITION=bottom-left
// sets toast.position. The result is validated before it is returned.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "address": ":8080",
//	    "request_timeout": "5s",
//	    "allowed_origins": ["https://app.example.com"]
//	  },
//	  "toast": {
//	    "type": "default",
//	    "duration": "5s",
//	    "position": "top-right",
//	    "closeable": true,
//	    "pause_on_hover": true,
//	    "exit_animation": "300ms"
//	  },
//	  "log": { "level": "info", "format": "json" },
//	  "metrics": { "enabled": true, "namespace": "toastd" },
//	  "tracing": { "enabled": false }
//	}
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc := toast.NewService(hub, loop, toast.WithDefaults(cfg.ToastDefaults()))
package config
