package devicetree

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
)

func init() {
	Register("group", TypeEntry{Verify: verifyGroup, Create: createGroup})
}

type groupSpec struct {
	Items []json.RawMessage `json:"items"`
}

// verifyGroup checks that a nested container carries a non-empty items
// array, grounded on the source's DeviceContainer::VerifyJSON.
func verifyGroup(raw json.RawMessage) error {
	var g groupSpec
	if err := json.Unmarshal(raw, &g); err != nil {
		return err
	}
	if len(g.Items) == 0 {
		return fmt.Errorf("%w: \"items\"", opresult.ErrItemsEmpty)
	}
	return nil
}

func createGroup(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var g groupSpec
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	children, err := loadContainerItems(g.Items, ctx)
	if err != nil {
		return nil, err
	}
	return NewContainer(uid, "group", children), nil
}
