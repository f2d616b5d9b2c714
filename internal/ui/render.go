package ui

import (
	"fmt"
	"strconv"

	"github.com/idilsaglam/grimoire/internal/model"
	"github.com/idilsaglam/grimoire/internal/view"
)

// Kamas formats a reward with thousands separators: 150000 -> "150 000".
func Kamas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Header is the one-line summary above a list.
func Header(t view.Totals) string {
	th := Current()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s %s K  %s %d pts",
		C(th.Title, "Grimoire"),
		C(th.Success, th.SymDone), t.Completed,
		C(th.Pending, th.SymUnchecked), t.Pending(),
		C(th.Accent, "Total"), t.Total,
		C(th.Reward, "Kamas"), Kamas(t.Reward),
		C(th.Reward, "Points"), t.Points,
	)
}

// ItemLine renders one row: index, box, name, boss and category.
func ItemLine(idx int, it model.Item) string {
	th := Current()
	box, color := th.BoxUnchecked, th.Muted
	if it.Completed {
		box, color = th.BoxChecked, th.Success
	}
	name := it.Name
	if len(name) > 60 {
		name = name[:57] + "..."
	}
	return fmt.Sprintf("%s %s %s %s %s",
		C(th.Muted, fmt.Sprintf("%2d.", idx)),
		C(color, box),
		name,
		C(th.Muted, "· "+it.Boss),
		C(th.Accent, "["+it.ID+"]"),
	)
}

// ItemLines renders a projection, or a placeholder when it is empty.
func ItemLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{C(Current().Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, ItemLine(i+1, it))
	}
	return out
}

// GroupLines renders pending and done sections.
func GroupLines(items []model.Item) []string {
	pend, done := view.Group(items)
	th := Current()
	var lines []string
	lines = append(lines, C(th.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, C(th.Muted, "(none)"))
	} else {
		lines = append(lines, ItemLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, C(th.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, C(th.Muted, "(none)"))
	} else {
		lines = append(lines, ItemLines(done)...)
	}
	return lines
}

// Details renders the full card of one item.
func Details(it model.Item) []string {
	th := Current()
	state := C(th.Pending, "pending")
	if it.Completed {
		state = C(th.Success, "completed")
	}
	lines := []string{
		C(th.Title, it.Name) + "  " + C(th.Muted, "["+it.ID+"]"),
		fmt.Sprintf("%s %s · level %d · %s · %s", C(th.Muted, "boss"), it.Boss, it.Level, it.Kind, it.Category.Label()),
		fmt.Sprintf("%s %s K  %s %d pts  %s", C(th.Reward, "kamas"), Kamas(it.Reward), C(th.Reward, "points"), it.Points, state),
	}
	if it.Travel != "" {
		lines = append(lines, C(th.Muted, "travel ")+it.Travel)
	}
	if len(it.Achievements) > 0 {
		lines = append(lines, "", C(th.Accent, "Achievements"))
		for _, a := range it.Achievements {
			lines = append(lines, fmt.Sprintf("  %s %s %s", th.SymUnchecked, a.Name, C(th.Muted, "("+a.Type+")")))
		}
	}
	if it.Notes != "" {
		lines = append(lines, "", C(th.Muted, "notes ")+it.Notes)
	}
	if it.Video != "" {
		lines = append(lines, C(th.Muted, "video ")+it.Video)
	}
	return lines
}
