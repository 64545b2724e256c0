package usecase

import (
	"strings"

	"github.com/mdcatalog/backend/internal/domain"
)

// SelectImage picks the representative image of a SKU item. The feed marks
// the primary shot by leaving its label empty, so the first image whose label
// trims to "" wins; when every image is labeled, the first image in list
// order is used. ok is false only when the item has no images at all.
func SelectImage(item domain.SKUItem) (url string, ok bool) {
	if len(item.Images) == 0 {
		return "", false
	}

	for _, img := range item.Images {
		if strings.TrimSpace(img.Label) == "" {
			return img.URL, true
		}
	}

	return item.Images[0].URL, true
}
