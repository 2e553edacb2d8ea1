// oddsviewer is a desktop viewer for saved simulation responses.
//
// It opens the JSON body of a /api/simulation response (saved to disk) and
// draws the field-wide single and average histograms plus the rank chart.
// Series can be toggled per competitor and the histograms can be switched
// between probability and cumulative views. Charts export as PNG or CSV.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/mckeenicholas/wca-odds-next/src/charts"
	"github.com/mckeenicholas/wca-odds-next/src/logging"
	"github.com/mckeenicholas/wca-odds-next/src/render"
	"github.com/mckeenicholas/wca-odds-next/src/types"
)

type uiState struct {
	app      fyne.App
	window   fyne.Window
	filePath string

	response *types.SimulationResponse
	fmc      bool

	cumulative bool
	visible    []bool

	seriesBox *fyne.Container

	singleImg  *canvas.Image
	averageImg *canvas.Image
	rankImg    *canvas.Image
}

func main() {
	filePath := flag.String("file", "", "Simulation response JSON to open at startup")
	fmc := flag.Bool("fmc", false, "Format result keys as move counts instead of clock times")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	logging.SetLevel(*logLevel)

	a := app.NewWithID("com.wcaodds.viewer")
	w := a.NewWindow("WCA Odds Viewer")
	w.Resize(fyne.NewSize(1100, 720))

	state := &uiState{app: a, window: w, filePath: *filePath, fmc: *fmc}
	state.singleImg = canvas.NewImageFromImage(blank(100, 60))
	state.singleImg.FillMode = canvas.ImageFillContain
	state.averageImg = canvas.NewImageFromImage(blank(100, 60))
	state.averageImg.FillMode = canvas.ImageFillContain
	state.rankImg = canvas.NewImageFromImage(blank(100, 60))
	state.rankImg.FillMode = canvas.ImageFillContain

	cumulativeChk := widget.NewCheck("Cumulative", func(on bool) {
		state.cumulative = on
		redrawCharts(state)
	})
	fmcChk := widget.NewCheck("FMC", func(on bool) {
		state.fmc = on
		redrawCharts(state)
	})
	fmcChk.SetChecked(state.fmc)

	state.seriesBox = container.NewHBox()
	fileLabel := widget.NewLabel("(no file)")

	controls := container.NewHBox(cumulativeChk, fmcChk, widget.NewSeparator(), state.seriesBox)
	tabs := container.NewAppTabs(
		container.NewTabItem("Singles", state.singleImg),
		container.NewTabItem("Averages", state.averageImg),
		container.NewTabItem("Ranks", state.rankImg),
	)
	w.SetContent(container.NewBorder(container.NewVBox(controls, fileLabel), nil, nil, nil, tabs))

	buildMenus(state, fileLabel)

	if state.filePath != "" {
		fileLabel.SetText(filepath.Base(state.filePath))
		loadAll(state)
	}

	w.ShowAndRun()
}

func buildMenus(state *uiState, fileLabel *widget.Label) {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state, fileLabel) }),
		fyne.NewMenuItem("Reload", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Singles Chart…", func() { exportChartPNG(state, state.singleImg, "singles.png") }),
		fyne.NewMenuItem("Export Averages Chart…", func() { exportChartPNG(state, state.averageImg, "averages.png") }),
		fyne.NewMenuItem("Export Ranks Chart…", func() { exportChartPNG(state, state.rankImg, "ranks.png") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Averages CSV…", func() { exportCSV(state, "averages.csv") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu))
}

func openFileDialog(state *uiState, fileLabel *widget.Label) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		fileLabel.SetText(filepath.Base(state.filePath))
		loadAll(state)
	}, state.window)
	d.Show()
}

func loadAll(state *uiState) {
	if state.filePath == "" {
		return
	}
	data, err := os.ReadFile(state.filePath)
	if err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	var resp types.SimulationResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	state.response = &resp
	logging.Infof("loaded %d competitors from %s", len(resp.CompetitorResults), state.filePath)

	rebuildSeriesToggles(state)
	redrawCharts(state)
}

// rebuildSeriesToggles resets the per-competitor visibility checkboxes to
// match the loaded response.
func rebuildSeriesToggles(state *uiState) {
	labels := state.response.FullHistogram.Average.Labels
	state.visible = make([]bool, len(labels))
	state.seriesBox.RemoveAll()
	for i, label := range labels {
		i := i
		chk := widget.NewCheck(label, func(on bool) {
			state.visible[i] = on
			redrawCharts(state)
		})
		chk.SetChecked(true)
		state.visible[i] = true
		state.seriesBox.Add(chk)
	}
	state.seriesBox.Refresh()
}

// viewDataset applies the visibility mask and recomputes the chart for the
// selected mode. Going back through the pipeline keeps sparse padding and
// near-zero row dropping consistent between views.
func viewDataset(state *uiState, d charts.Dataset) charts.Dataset {
	mode := charts.ModeProbability
	if state.cumulative {
		mode = charts.ModeCumulative
	}
	out, err := charts.RebuildDataset(d.Filter(state.visible), mode)
	if err != nil {
		logging.Warnf("rebuilding dataset: %v", err)
		return d.Filter(state.visible)
	}
	return out
}

func redrawCharts(state *uiState) {
	if state.response == nil {
		return
	}
	yName := "%"
	if state.cumulative {
		yName = "cumulative %"
	}
	width := int(state.window.Canvas().Size().Width)

	draw := func(img *canvas.Image, d charts.Dataset, opts render.Options) {
		opts.Width = width
		data, err := render.Render(d, opts)
		if err != nil {
			logging.Warnf("rendering %s: %v", opts.Title, err)
			img.Image = blank(100, 60)
			img.Refresh()
			return
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			logging.Warnf("decoding %s: %v", opts.Title, err)
			return
		}
		img.Image = decoded
		img.Refresh()
	}

	draw(state.singleImg, viewDataset(state, state.response.FullHistogram.Single),
		render.Options{Title: "Best single", FMC: state.fmc, YAxisName: yName})
	draw(state.averageImg, viewDataset(state, state.response.FullHistogram.Average),
		render.Options{Title: "Round average", FMC: state.fmc, YAxisName: yName})

	// Rank keys are placements; the cumulative toggle does not apply.
	draw(state.rankImg, state.response.RankHistogram.Filter(state.visible),
		render.Options{Title: "Finishing rank", RawKeys: true, YAxisName: "%"})
}

func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img.Image); err != nil {
			logging.Errorf("exporting PNG: %v", err)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func exportCSV(state *uiState, defaultName string) {
	if state.response == nil {
		dialog.ShowInformation("Export", "No data to export.", state.window)
		return
	}
	d := viewDataset(state, state.response.FullHistogram.Average)
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := render.WriteCSV(wc, d, state.fmc); err != nil {
			logging.Errorf("exporting CSV: %v", err)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func blank(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}
