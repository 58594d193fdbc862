package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/eo-datahub/eodh-workflows/pkg/ades"
)

// TUI shows the execution service job list with a detail pane. The job
// table refreshes on an interval; 'd' dismisses the selected job.
type TUI struct {
	app    *tview.Application
	table  *tview.Table
	detail *tview.TextView
	status *tview.TextView

	client   *ades.Client
	interval time.Duration

	mu   sync.Mutex
	jobs []ades.Job

	baseCtx    context.Context
	baseCancel context.CancelFunc
	stopOnce   sync.Once
}

func statusColor(status ades.JobStatus) tcell.Color {
	switch status {
	case ades.StatusSuccessful:
		return tcell.ColorGreen
	case ades.StatusFailed:
		return tcell.ColorRed
	case ades.StatusRunning:
		return tcell.ColorYellow
	case ades.StatusDismissed:
		return tcell.ColorGray
	default:
		return tcell.ColorWhite
	}
}

// NewTUI creates the job monitor. The provided context controls the
// lifetime of background polling; pass nil to use context.Background().
func NewTUI(ctx context.Context, client *ades.Client, interval time.Duration) *TUI {
	if ctx == nil {
		ctx = context.Background()
	}
	baseCtx, baseCancel := context.WithCancel(ctx)

	t := &TUI{
		app:        tview.NewApplication(),
		client:     client,
		interval:   interval,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}

	t.table = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	t.table.SetBorder(true).SetTitle("Jobs")
	t.table.SetSelectionChangedFunc(func(row, col int) {
		t.showDetail(row - 1)
	})

	t.detail = tview.NewTextView().SetDynamicColors(true)
	t.detail.SetBorder(true).SetTitle("Job Detail")

	t.status = tview.NewTextView().SetDynamicColors(true)
	t.status.SetText("[yellow]r[white] refresh  [yellow]d[white] dismiss  [yellow]q[white] quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().
			AddItem(t.table, 0, 1, true).
			AddItem(t.detail, 0, 1, false), 0, 1, true).
		AddItem(t.status, 1, 0, false)

	t.app.SetRoot(layout, true)
	t.app.SetInputCapture(t.onInputCapture)

	go t.pollLoop()
	return t
}

// Run starts the TUI event loop. It blocks until the application exits.
func (t *TUI) Run() error {
	return t.app.Run()
}

func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		t.baseCancel()
		t.app.Stop()
	})
}

func (t *TUI) onInputCapture(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		t.Stop()
		return nil
	}
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case 'q', 'Q':
		t.Stop()
		return nil
	case 'r', 'R':
		go t.refresh()
		return nil
	case 'd', 'D':
		if job, ok := t.selectedJob(); ok {
			go t.dismiss(job.JobID)
		}
		return nil
	}
	return event
}

func (t *TUI) pollLoop() {
	t.refresh()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.baseCtx.Done():
			return
		case <-ticker.C:
			t.refresh()
		}
	}
}

func (t *TUI) refresh() {
	ctx, cancel := context.WithTimeout(t.baseCtx, 30*time.Second)
	defer cancel()

	jobs, err := t.client.ListJobs(ctx)
	if err != nil {
		t.app.QueueUpdateDraw(func() {
			t.detail.SetText(fmt.Sprintf("[red]Error:[white] %v", err))
		})
		return
	}

	t.mu.Lock()
	t.jobs = jobs
	t.mu.Unlock()

	t.app.QueueUpdateDraw(func() {
		t.renderTable(jobs)
	})
}

func (t *TUI) renderTable(jobs []ades.Job) {
	t.table.Clear()

	headers := []string{"Job ID", "Process", "Status", "Progress", "Started"}
	for i, h := range headers {
		t.table.SetCell(0, i, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	for row, job := range jobs {
		started := ""
		if job.Started != nil {
			started = job.Started.Format(time.RFC3339)
		}
		cells := []string{
			job.JobID,
			job.ProcessID,
			string(job.Status),
			fmt.Sprintf("%d%%", job.Progress),
			started,
		}
		for col, text := range cells {
			cell := tview.NewTableCell(text)
			if col == 2 {
				cell.SetTextColor(statusColor(job.Status))
			}
			t.table.SetCell(row+1, col, cell)
		}
	}

	row, _ := t.table.GetSelection()
	t.showDetail(row - 1)
}

func (t *TUI) selectedJob() (ades.Job, bool) {
	row, _ := t.table.GetSelection()
	t.mu.Lock()
	defer t.mu.Unlock()
	index := row - 1
	if index < 0 || index >= len(t.jobs) {
		return ades.Job{}, false
	}
	return t.jobs[index], true
}

func (t *TUI) showDetail(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.jobs) {
		t.detail.SetText("")
		return
	}
	job := t.jobs[index]

	text := fmt.Sprintf("[yellow]Job ID:[white] %s\n[yellow]Process:[white] %s\n[yellow]Status:[white] %s\n[yellow]Progress:[white] %d%%\n",
		job.JobID, job.ProcessID, job.Status, job.Progress)
	if job.Message != "" {
		text += fmt.Sprintf("[yellow]Message:[white] %s\n", job.Message)
	}
	if job.Created != nil {
		text += fmt.Sprintf("[yellow]Created:[white] %s\n", job.Created.Format(time.RFC3339))
	}
	if job.Started != nil {
		text += fmt.Sprintf("[yellow]Started:[white] %s\n", job.Started.Format(time.RFC3339))
	}
	if job.Finished != nil {
		text += fmt.Sprintf("[yellow]Finished:[white] %s\n", job.Finished.Format(time.RFC3339))
	}
	t.detail.SetText(text)
}

func (t *TUI) dismiss(jobID string) {
	ctx, cancel := context.WithTimeout(t.baseCtx, 30*time.Second)
	defer cancel()

	if err := t.client.DismissJob(ctx, jobID); err != nil {
		t.app.QueueUpdateDraw(func() {
			t.detail.SetText(fmt.Sprintf("[red]Dismiss failed:[white] %v", err))
		})
		return
	}
	t.refresh()
}
