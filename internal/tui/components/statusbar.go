package components

import (
	"fmt"

	serial "github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/tui/colors"
	"github.com/allbin/go-serialctl/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// StatusBar is the single line at the bottom of the monitor, laid out like
// an editor status line: mode, device, state | settings, counters, clock.
type StatusBar struct {
	device   string
	settings serial.Settings
	state    serial.State
	err      error
	rxBytes  int
	txBytes  int
	width    int
}

func NewStatusBar(device string, settings serial.Settings) *StatusBar {
	return &StatusBar{
		device:   device,
		settings: settings,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetState(state serial.State) {
	sb.state = state
}

// SetError records the last failure; nil clears it.
func (sb *StatusBar) SetError(err error) {
	sb.err = err
}

func (sb *StatusBar) CountRX(n int) {
	sb.rxBytes += n
}

func (sb *StatusBar) CountTX(n int) {
	sb.txBytes += n
}

func (sb *StatusBar) ResetCounters() {
	sb.rxBytes, sb.txBytes = 0, 0
}

func (sb *StatusBar) statusType() styles.StatusType {
	switch {
	case sb.err != nil:
		return styles.StatusError
	case sb.state == serial.StateOpened:
		return styles.StatusOpened
	case sb.state == serial.StateSet:
		return styles.StatusSet
	default:
		return styles.StatusNotSet
	}
}

// LineSettings renders settings the way terminal programs do, e.g. "9600 8N1".
func LineSettings(s serial.Settings) string {
	parity := map[serial.Parity]string{
		serial.ParityNone: "N",
		serial.ParityOdd:  "O",
		serial.ParityEven: "E",
	}[s.Parity]
	return fmt.Sprintf("%d %d%s%s", s.BaudRate, s.DataBits, parity, s.StopBits)
}

func (sb *StatusBar) View(inputMode, sendingMode, viewMode, clock string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeColor := colors.Blue
	if inputMode == "INSERT" {
		modeColor = colors.Green
	}
	mode := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(modeColor).
		Bold(true).
		Padding(0, 1).
		Render(inputMode)

	device := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)

	status := sb.statusType()
	indicator := styles.GetStatusStyle(status).Render(styles.StatusSymbol(status))

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	left := []string{mode, device, indicator}
	if inputMode == "INSERT" {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Peach).
			Bold(true).
			Padding(0, 1).
			Render(fmt.Sprintf("[%s] Tab to toggle", sendingMode)))
	}
	if sb.err != nil {
		left = append(left, lipgloss.NewStyle().
			Foreground(colors.Red).
			Padding(0, 1).
			Render(sb.err.Error()))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	details := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("⚡ %s %s  rx:%d tx:%d %s",
			LineSettings(sb.settings), sb.settings.FlowControl, sb.rxBytes, sb.txBytes, viewMode))
	timeView := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(clock)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, timeView)

	spacer := lipgloss.NewStyle().
		Width(max(width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide), 1)).
		Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
