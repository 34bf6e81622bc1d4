package journalcrop

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Deduplicate removes regions that overlap a larger region on the same page.
// Regions are visited in ascending area order; for every still-retained pair
// whose interiors intersect the smaller one is removed, and of two equal
// areas the later one. Removal deletes the stored artifact and the entry.
//
// The set is reset afterwards whatever the outcome. The removed names are
// returned in removal order.
func Deduplicate(set *PageRegionSet, store ArtifactStore, log logrus.FieldLogger) []string {
	page := set.Page()
	defer set.Reset(page)

	regions := set.Regions()
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Box.Area() < regions[j].Box.Area()
	})

	removed := make([]bool, len(regions))
	var names []string
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if removed[i] {
				break
			}
			if removed[j] || !regions[i].Box.Intersects(regions[j].Box) {
				continue
			}

			victim := i
			if regions[i].Box.Area() == regions[j].Box.Area() {
				victim = j
			}
			removed[victim] = true

			name := regions[victim].Name
			if err := store.Remove(name); err != nil {
				log.WithError(err).WithField("region", name).Warn("failed to remove duplicate region")
			} else {
				log.WithField("region", name).Debug("removed duplicate region")
			}
			set.Delete(name)
			names = append(names, name)
		}
	}

	return names
}
