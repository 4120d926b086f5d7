package tiles

import "fmt"

// Content is the icon drawn inside a minimap tile.
type Content uint8

const (
	ContentEmpty = Content(iota)
	ContentEmptyRedWalls
	ContentNavigation
	ContentSave
	ContentRecharge
	ContentHiddenRecharge
	ContentData
	ContentItem
	ContentObtainedItem
	ContentBoss // boss room piece without a known icon placement
	ContentBossRightDownloaded
	ContentBossBottomLeftExplored
	ContentBossTopLeftDownloaded
	ContentBossLeftExplored
	ContentBossTopRightBoth
	ContentBossTopRightExplored
	ContentGunship
	ContentGunshipEdge
	ContentSecurity
	ContentAuxiliaryPower
	ContentTunnel
	ContentMap         // Zero Mission map station
	ContentMajorItem   // Zero Mission
	ContentChozoStatue // Zero Mission
	contentCount
)

var contentNames = [contentCount]string{
	ContentEmpty:                  "x",
	ContentEmptyRedWalls:          "r",
	ContentNavigation:             "N",
	ContentSave:                   "S",
	ContentRecharge:               "R",
	ContentHiddenRecharge:         "H",
	ContentData:                   "D",
	ContentItem:                   "I",
	ContentObtainedItem:           "O",
	ContentBoss:                   "B",
	ContentBossRightDownloaded:    "B1",
	ContentBossBottomLeftExplored: "B2",
	ContentBossTopLeftDownloaded:  "B3",
	ContentBossLeftExplored:       "B4",
	ContentBossTopRightBoth:       "B5",
	ContentBossTopRightExplored:   "B6",
	ContentGunship:                "G",
	ContentGunshipEdge:            "P",
	ContentSecurity:               "K",
	ContentAuxiliaryPower:         "A",
	ContentTunnel:                 "T",
	ContentMap:                    "M",
	ContentMajorItem:              "J",
	ContentChozoStatue:            "C",
}

func (c Content) String() string {
	if c >= contentCount {
		return fmt.Sprintf("Content(%d)", uint8(c))
	}
	return contentNames[c]
}

// hasRedOutline lists the contents drawn inside a red room outline.
func (c Content) hasRedOutline() bool {
	switch c {
	case ContentEmptyRedWalls, ContentNavigation, ContentSave, ContentRecharge,
		ContentHiddenRecharge, ContentData, ContentSecurity:
		return true
	}
	return false
}
