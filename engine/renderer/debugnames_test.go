package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/prisma/engine/core"
)

func TestDebugNameRegistryRoundTrip(t *testing.T) {
	r := NewDebugNameRegistry(core.NewSessionID())

	r.NameTexture(7, "software-texture-%d", 7)
	r.NameSlot(FontSlot(), "ui-font-atlas")

	assert.Equal(t, "software-texture-7", r.TextureName(7))
	assert.Equal(t, "ui-font-atlas", r.SlotName(FontSlot()))

	r.ForgetTexture(7)
	assert.NotEqual(t, "software-texture-7", r.TextureName(7))
}

func TestDebugNameRegistryAnonymousNamesCarrySession(t *testing.T) {
	session := core.NewSessionID()
	r := NewDebugNameRegistry(session)

	assert.Contains(t, r.TextureName(3), session.Short())
	assert.Contains(t, r.SlotName(5), session.Short())
}
