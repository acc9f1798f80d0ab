package devicetree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
)

// ConfigDocument is the top-level configuration JSON (spec.md §6): a
// deviceId used in MQTT topic templates, an optional global metadata
// block, and an items array of device specifications.
type ConfigDocument struct {
	DeviceID string          `json:"deviceId"`
	Global   json.RawMessage `json:"global"`
	Items    []json.RawMessage `json:"items"`
}

type itemHeader struct {
	Type     string `json:"type"`
	UID      string `json:"uid"`
	Disabled bool   `json:"disabled"`
	History  bool   `json:"history"`
}

type verifiedItem struct {
	header itemHeader
	raw    json.RawMessage
	entry  TypeEntry
}

// LoadTree parses a configuration document and builds the device tree
// rooted at a synthetic container (spec.md §3, "The root of the tree is
// a synthetic container whose children are the top-level devices"). The
// returned tree is fully constructed — VerifyJSON has already run for
// every non-disabled item — or an error naming the first problem found;
// on error no tree is returned and the caller's previous tree, if any,
// remains in service (spec.md §7 propagation rule).
func LoadTree(data []byte, ctx *BuildContext) (*Device, error) {
	var doc ConfigDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", opresult.ErrMissingKey, err)
	}
	if doc.DeviceID == "" {
		return nil, fmt.Errorf("%w: top-level \"deviceId\"", opresult.ErrMissingKey)
	}
	ctx.DeviceID = doc.DeviceID

	children, err := loadContainerItems(doc.Items, ctx)
	if err != nil {
		return nil, err
	}
	return NewContainer(path.Invalid, "root", children), nil
}

// loadContainerItems runs the two-pass verify-then-construct loader
// (grounded on the source's DeviceContainer: a first pass counts valid
// entries and runs VerifyJSON for each, a second pass constructs them).
// Bare JSON strings inside items are comments and are skipped, matching
// spec.md §6; a disabled item is skipped before its type is even looked
// up, so a disabled device with an unknown type is not an error.
func loadContainerItems(items []json.RawMessage, ctx *BuildContext) ([]*Device, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: \"items\"", opresult.ErrItemsEmpty)
	}

	verified := make([]verifiedItem, 0, len(items))
	for _, raw := range items {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '"' {
			continue
		}

		var h itemHeader
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("%w: item is not an object: %v", opresult.ErrMissingKey, err)
		}
		if h.Disabled {
			continue
		}
		if h.Type == "" {
			return nil, fmt.Errorf("%w: item missing \"type\"", opresult.ErrMissingKey)
		}
		if h.UID == "" {
			return nil, fmt.Errorf("%w: item of type %q missing \"uid\"", opresult.ErrMissingKey, h.Type)
		}

		entry, ok := lookup(h.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q", opresult.ErrUnknownType, h.Type)
		}
		if entry.Verify != nil {
			if err := entry.Verify(raw); err != nil {
				return nil, fmt.Errorf("type %s uid %s: %w", h.Type, h.UID, err)
			}
		}
		verified = append(verified, verifiedItem{header: h, raw: raw, entry: entry})
	}

	if len(verified) == 0 {
		return nil, fmt.Errorf("%w: \"items\" has no enabled entries", opresult.ErrItemsEmpty)
	}

	children := make([]*Device, 0, len(verified))
	seen := make(map[path.Identifier]bool, len(verified))
	for _, v := range verified {
		uid, err := path.EncodeIdentifier(v.header.UID)
		if err != nil {
			return nil, fmt.Errorf("type %s uid %q: %w", v.header.Type, v.header.UID, err)
		}
		if seen[uid] {
			return nil, fmt.Errorf("%w: %q", opresult.ErrDuplicateUID, v.header.UID)
		}
		seen[uid] = true

		dev, err := v.entry.Create(uid, v.raw, ctx)
		if err != nil {
			return nil, fmt.Errorf("type %s uid %s: %w", v.header.Type, v.header.UID, err)
		}
		dev.History = v.header.History
		children = append(children, dev)
	}
	return children, nil
}
