package grid

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
)

// RoughPenalty is the penalty given to '~' cells of an ASCII map.
const RoughPenalty = 2 * geom.Precision

// Markers are the optional start and end cells found in an ASCII map.
type Markers struct {
	Start, End       graph.NodeID
	HasStart, HasEnd bool
	StartPos, EndPos geom.Vec3
}

// ParseASCII builds a grid from a text map. Each line is a row of increasing Z.
//
//	.  walkable
//	#  blocked
//	~  walkable with RoughPenalty
//	0-9 walkable with that tag
//	S  walkable start marker
//	E  walkable end marker
//
// Width and Depth in opts are taken from the map; other options apply as given.
// Blank lines are ignored; rows shorter than the widest row are padded as blocked.
func ParseASCII(r io.Reader, opts Options) (*Graph, Markers, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, Markers{}, fmt.Errorf("grid: read map: %w", err)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	opts.Width, opts.Depth = width, len(rows)

	g, err := New(opts)
	if err != nil {
		return nil, Markers{}, err
	}

	m := Markers{Start: graph.NoNode, End: graph.NoNode}
	for z, row := range rows {
		for x := 0; x < width; x++ {
			ch := byte('#')
			if x < len(row) {
				ch = row[x]
			}
			switch {
			case ch == '.':
			case ch == '#' || ch == 'X':
				g.SetWalkable(x, z, false)
			case ch == '~':
				g.SetPenalty(x, z, RoughPenalty)
			case ch >= '0' && ch <= '9':
				g.SetTag(x, z, ch-'0')
			case ch == 'S':
				m.Start, m.HasStart = g.NodeAt(x, z), true
				m.StartPos = g.center(x, z)
			case ch == 'E':
				m.End, m.HasEnd = g.NodeAt(x, z), true
				m.EndPos = g.center(x, z)
			default:
				return nil, Markers{}, fmt.Errorf("grid: unknown map cell %q at %d,%d", ch, x, z)
			}
		}
	}

	g.RecalculateAreas()
	return g, m, nil
}

// Render draws the grid as text, overlaying path nodes with '*' and the first
// and last path nodes with 'S' and 'E'.
func (g *Graph) Render(path []graph.NodeID) string {
	onPath := make(map[graph.NodeID]byte, len(path))
	for i, n := range path {
		switch i {
		case 0:
			onPath[n] = 'S'
		case len(path) - 1:
			onPath[n] = 'E'
		default:
			onPath[n] = '*'
		}
	}

	var sb strings.Builder
	sb.Grow((g.width + 1) * g.depth)
	for z := 0; z < g.depth; z++ {
		for x := 0; x < g.width; x++ {
			n := g.NodeAt(x, z)
			if ch, ok := onPath[n]; ok {
				sb.WriteByte(ch)
				continue
			}
			switch {
			case !g.Walkable(n):
				sb.WriteByte('#')
			case g.penalties[n] > 0:
				sb.WriteByte('~')
			case g.tags[n] > 0 && g.tags[n] < 10:
				sb.WriteByte('0' + g.tags[n])
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
