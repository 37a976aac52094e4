package model

// PageDescriptor is one physical label sheet.
type PageDescriptor struct {
	Index  int          `json:"index"` // 0-based position in the print run
	Code   string       `json:"code"`
	Layout LayoutConfig `json:"layout"` // snapshot taken at generation time
}

// GeneratePages expands the dataset into one page per label instance, in
// record order. Every page carries its own copy of layout. A dataset built by
// hand is held to the same MaxTotalLabels bound as a loaded one.
func GeneratePages(ds LabelDataset, layout LayoutConfig) []PageDescriptor {
	pages := make([]PageDescriptor, 0, min(max(ds.TotalCount, 0), MaxTotalLabels))
	for _, rec := range ds.Records {
		for i := 0; i < rec.Quantity && len(pages) < MaxTotalLabels; i++ {
			pages = append(pages, PageDescriptor{
				Index:  len(pages),
				Code:   rec.Code,
				Layout: layout.Clone(),
			})
		}
	}
	return pages
}
