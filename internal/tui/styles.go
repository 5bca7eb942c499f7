package tui

import "github.com/charmbracelet/lipgloss"

// ==================== 主题 ====================

// Theme 一套完整的界面样式
// 亮/暗两个配色在运行时整套切换，而不是逐个样式判断
type Theme struct {
	Dark bool

	Title    lipgloss.Style
	Header   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Disabled lipgloss.Style
	Label    lipgloss.Style
	Input    lipgloss.Style
	Status   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
	Box      lipgloss.Style
	Staged   lipgloss.Style
}

// NewTheme 构建主题
func NewTheme(dark bool) Theme {
	type palette struct {
		fg, dim, accent, accentFg, ok, warn, bad, staged string
	}

	var p palette
	if dark {
		p = palette{
			fg: "#d9d9d9", dim: "#7a7a7a", accent: "#00aadd", accentFg: "#000000",
			ok: "#50fa7b", warn: "#f1fa8c", bad: "#ff5555", staged: "#ffb86c",
		}
	} else {
		p = palette{
			fg: "#262626", dim: "#626262", accent: "#005577", accentFg: "#ffffff",
			ok: "#859900", warn: "#b58900", bad: "#dc322f", staged: "#cb4b16",
		}
	}

	return Theme{
		Dark: dark,

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)).
			Bold(true).
			Margin(1, 0, 1, 0),

		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accent)).
			Bold(true),

		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),

		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accentFg)).
			Background(lipgloss.Color(p.accent)).
			Bold(true),

		Disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.dim)),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.ok)).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),

		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.dim)).
			Italic(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.ok)).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warn)).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.bad)).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.dim)).
			Margin(1, 0, 0, 0),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.accent)).
			Padding(0, 1),

		Staged: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.staged)).
			Bold(true),
	}
}
