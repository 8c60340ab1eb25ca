package renderer

import (
	"fmt"

	"github.com/spaghettifunk/prisma/engine/core"
)

// DebugNameRegistry maps texture handles and descriptor slots to the
// human-readable names backends attach to their GPU objects. It is
// owned by one renderer instance and dies with it, so names from a
// torn-down backend never leak into the next one after a fallback.
type DebugNameRegistry struct {
	session  core.SessionID
	textures map[TextureHandle]string
	slots    map[DescriptorSlot]string
}

func NewDebugNameRegistry(session core.SessionID) *DebugNameRegistry {
	return &DebugNameRegistry{
		session:  session,
		textures: make(map[TextureHandle]string),
		slots:    make(map[DescriptorSlot]string),
	}
}

func (r *DebugNameRegistry) NameTexture(h TextureHandle, format string, args ...interface{}) {
	r.textures[h] = fmt.Sprintf(format, args...)
}

func (r *DebugNameRegistry) NameSlot(s DescriptorSlot, format string, args ...interface{}) {
	r.slots[s] = fmt.Sprintf(format, args...)
}

// TextureName returns the registered name, or a session-scoped
// placeholder for anonymous handles.
func (r *DebugNameRegistry) TextureName(h TextureHandle) string {
	if name, ok := r.textures[h]; ok {
		return name
	}
	return fmt.Sprintf("texture-%d@%s", h, r.session.Short())
}

func (r *DebugNameRegistry) SlotName(s DescriptorSlot) string {
	if name, ok := r.slots[s]; ok {
		return name
	}
	return fmt.Sprintf("slot-%d@%s", s, r.session.Short())
}

func (r *DebugNameRegistry) ForgetTexture(h TextureHandle) {
	delete(r.textures, h)
}
