// Package hcl provides the HCL implementation of config.Loader.
//
// A run file may hold three optional blocks:
//
//	render {
//	  width          = 1000
//	  height         = 1000
//	  center         = [-0.5, 0.0]
//	  radius         = 1.0
//	  max_iterations = 512
//	  contrast       = 4
//	}
//
//	engine {
//	  strategy     = "pool"   # pool, fanout or sequential
//	  workers      = 8
//	  queue_depth  = 32
//	  task_budget  = 0
//	  on_exhausted = "degrade" # degrade or reject
//	  strict       = false
//	}
//
//	output {
//	  png        = "mandelbrot.png"
//	  serve_port = 8080
//	  hold       = true
//	}
//
// Expressions are evaluated with a "landmark" object in scope, holding the
// classic regions of the set, so a view can be written as
//
//	center = landmark.seahorse_valley.center
//	radius = landmark.seahorse_valley.radius
package hcl
