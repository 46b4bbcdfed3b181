package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/piratesim/ecs"
)

// Registry caches images by asset key and remembers which asset each entity
// was given. It satisfies the simulation's visual attacher.
type Registry struct {
	mu       sync.Mutex
	images   map[string]*ebiten.Image
	byEntity map[ecs.Entity]string
	load     func(key string) (*ebiten.Image, error)
}

func NewRegistry() *Registry {
	return &Registry{
		images:   make(map[string]*ebiten.Image),
		byEntity: make(map[ecs.Entity]string),
		load:     LoadImage,
	}
}

// AttachVisual records the asset for e. The image itself is resolved lazily
// on first draw.
func (r *Registry) AttachVisual(e ecs.Entity, asset string) {
	if r == nil || asset == "" {
		return
	}
	r.mu.Lock()
	r.byEntity[e] = asset
	r.mu.Unlock()
}

// Asset returns the asset key attached to e.
func (r *Registry) Asset(e ecs.Entity) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byEntity[e]
	return key, ok
}

// Forget drops the binding for e.
func (r *Registry) Forget(e ecs.Entity) {
	r.mu.Lock()
	delete(r.byEntity, e)
	r.mu.Unlock()
}

// Prune forgets every entity that is no longer alive in w and returns how many
// bindings were removed.
func (r *Registry) Prune(w *ecs.World) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for e := range r.byEntity {
		if !w.IsAlive(e) {
			delete(r.byEntity, e)
			removed++
		}
	}
	return removed
}

// Len returns the number of bound entities.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEntity)
}

// RegisterImage stores an image by key.
func (r *Registry) RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	r.mu.Lock()
	r.images[key] = img
	r.mu.Unlock()
}

// Image returns the image for key, loading and caching it on first use.
func (r *Registry) Image(key string) (*ebiten.Image, error) {
	r.mu.Lock()
	img, ok := r.images[key]
	r.mu.Unlock()
	if ok {
		return img, nil
	}
	img, err := r.load(key)
	if err != nil {
		return nil, err
	}
	r.RegisterImage(key, img)
	return img, nil
}
