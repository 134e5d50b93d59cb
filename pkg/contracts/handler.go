// Package contracts holds the small interfaces shared between the application
// shell and the feature packages.
package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every feature package that exposes HTTP routes.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
