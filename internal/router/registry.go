package router

import "github.com/gin-gonic/gin"

// Registry mounts every module under each API prefix, so /api and /api/v1
// serve the same routes.
type Registry struct {
	Engine      *gin.Engine
	Groups      []*gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine, prefixes ...string) *Registry {
	if len(prefixes) == 0 {
		prefixes = []string{"/api"}
	}
	r := &Registry{Engine: engine}
	for _, p := range prefixes {
		r.Groups = append(r.Groups, engine.Group(p))
	}
	return r
}

// Use adds middleware that runs for API routes only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod ...Module) {
	r.modules = append(r.modules, mod...)
}

func (r *Registry) RegisterAll() {
	for _, g := range r.Groups {
		if len(r.middlewares) > 0 {
			g.Use(r.middlewares...)
		}
		for _, m := range r.modules {
			m.Register(g)
		}
	}
}
