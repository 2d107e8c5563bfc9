package gallery

import (
	"fmt"
	"strings"
)

// PageSegment returns the remote directory segment for a parent page,
// e.g. "set_3" for prefix "set" and page 3. The same segment names the
// local per-page directory.
func PageSegment(prefix string, page int) string {
	return fmt.Sprintf("%s_%d", prefix, page)
}

// ImageFilename returns the filename for an image index, e.g. "7.jpg".
func ImageFilename(index int, ext string) string {
	return fmt.Sprintf("%d%s", index, ext)
}

// ImageURL builds the remote URL base/prefix_N/M.ext for one image item.
func (c *Client) ImageURL(page, index int) string {
	base := strings.TrimRight(c.source.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s",
		base,
		PageSegment(c.source.PagePrefix, page),
		ImageFilename(index, c.source.ImageExt),
	)
}
