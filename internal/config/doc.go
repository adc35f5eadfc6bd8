// Package config provides configuration parsing for nodeview.
//
// The configuration is stored in nodeview.json. This package handles
// loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "logLevel": "info",
//	  "render": {
//	    "presets": ["classic", "contextmenu", "minimap", "reroute"],
//	    "scheduler": "queue",
//	    "connectionPath": "curved",
//	    "curvature": 0.3
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 7420
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "nodeview"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "nodeview"
//	  },
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {"bucket": "", "prefix": "snapshots/", "region": "us-east-1"}
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
