package renderer

import (
	"strings"

	"github.com/spaghettifunk/prisma/engine/core"
)

// Kind identifies one concrete backend.
type Kind string

const (
	KindDx12     Kind = "dx12"
	KindVulkan   Kind = "vulkan"
	KindSoftware Kind = "software"
)

// ParseKind maps a user-supplied backend name to a Kind. Matching is
// case-insensitive. Anything else, the empty string included, is a
// configuration error listing the valid names.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case string(KindDx12):
		return KindDx12, nil
	case string(KindVulkan):
		return KindVulkan, nil
	case string(KindSoftware):
		return KindSoftware, nil
	}
	return "", core.NewConfigError("unrecognized renderer backend %q, valid values are: dx12, vulkan, software", name)
}

// BuildAttemptOrder returns the backends to try. An override yields a
// single attempt with no fallback; otherwise the fixed priority order
// is used.
func BuildAttemptOrder(override *Kind) []Kind {
	if override != nil {
		return []Kind{*override}
	}
	return []Kind{KindDx12, KindVulkan, KindSoftware}
}
