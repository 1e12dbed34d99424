package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every domain HTTP handler mounted by pkg/app.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
