//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"goslidewriter/internal/crash"
	"goslidewriter/internal/domain"
	applog "goslidewriter/internal/log"
	"goslidewriter/internal/session"
	"goslidewriter/internal/version"
)

const (
	thumbW = 160
	thumbH = 90
)

// Run starts the Fyne desktop shell and blocks until the window closes.
func Run(opts Options) error {
	ed := opts.Editor
	if ed == nil {
		return fmt.Errorf("ui: no editor")
	}
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))
	defer crash.Recover(crash.Options{State: ed.Summary})

	fyneApp := app.NewWithID("goslidewriter")
	applyTheme(fyneApp, opts.Config.General.Theme)
	w := fyneApp.NewWindow("GoSlideWriter")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 1280), 800)
	winH := max(prefs.IntWithFallback("window.height", 820), 600)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	store := ed.Store()
	ctrl := ed.Controller()

	// Prompt screen
	topicEntry := widget.NewEntry()
	topicEntry.SetPlaceHolder("e.g. The History of Space Exploration")
	generateBtn := widget.NewButtonWithIcon("Generate Presentation", theme.MediaPlayIcon(), nil)
	startGeneration := func(topic string) {
		go func() {
			if err := ed.Generate(context.Background(), topic); err != nil {
				l.Debug("generation ended with error", slog.Any("err", err))
			}
		}()
	}
	generateBtn.OnTapped = func() { startGeneration(topicEntry.Text) }
	topicEntry.OnSubmitted = startGeneration
	topicEntry.OnChanged = func(s string) {
		if s == "" {
			generateBtn.Disable()
		} else {
			generateBtn.Enable()
		}
	}
	generateBtn.Disable()
	title := widget.NewRichTextFromMarkdown("# AI Presentation Generator")
	promptScreen := container.NewCenter(container.NewVBox(
		title,
		widget.NewLabelWithStyle("Enter a topic and let AI create a beautiful, editable presentation for you.", fyne.TextAlignCenter, fyne.TextStyle{}),
		topicEntry,
		generateBtn,
	))

	// Loading screen
	loadingLabel := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	loadingScreen := container.NewCenter(container.NewVBox(
		widget.NewProgressBarInfinite(),
		widget.NewLabelWithStyle("Generating your presentation...", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		loadingLabel,
	))

	// Error screen
	errLabel := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	errLabel.Wrapping = fyne.TextWrapWord
	errorScreen := container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle("An Error Occurred", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		errLabel,
		widget.NewButtonWithIcon("Try Again", theme.ViewRefreshIcon(), ed.Retry),
	))

	// Editor screen
	slideCanvas := NewSlideCanvas(store, ctrl)
	var pres domain.Presentation
	var thumbs []image.Image
	thumbCache := newThumbCache(thumbW*2, thumbH*2)
	slideList := widget.NewList(
		func() int { return len(pres.Slides) },
		func() fyne.CanvasObject {
			img := canvas.NewImageFromImage(nil)
			img.FillMode = canvas.ImageFillContain
			img.SetMinSize(fyne.NewSize(thumbW, thumbH))
			del := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
			del.Importance = widget.LowImportance
			return container.NewBorder(nil, nil, widget.NewLabel(""), del, img)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			c := o.(*fyne.Container)
			img := c.Objects[0].(*canvas.Image)
			num := c.Objects[1].(*widget.Label)
			del := c.Objects[2].(*widget.Button)
			if i < 0 || i >= len(pres.Slides) {
				return
			}
			if i < len(thumbs) {
				img.Image = thumbs[i]
				img.Refresh()
			}
			num.SetText(fmt.Sprintf("%d", i+1))
			idx := i
			del.OnTapped = func() { ed.DeleteSlide(idx) }
			if len(pres.Slides) > 1 {
				del.Show()
			} else {
				del.Hide()
			}
		},
	)
	slideList.OnSelected = func(id widget.ListItemID) { ed.SelectSlide(id) }

	textEditor := widget.NewMultiLineEntry()
	textEditor.SetPlaceHolder("Select a text element to edit it")
	textEditor.Wrapping = fyne.TextWrapWord
	textEditor.Disable()
	editing := ""
	textEditor.OnChanged = func(s string) {
		if editing != "" {
			ctrl.EditText(editing, s)
		}
	}
	syncTextEditor := func(id string) {
		el, ok := store.Element(store.Active(), id)
		if !ok || !el.Kind.IsText() {
			editing = ""
			textEditor.SetText("")
			textEditor.Disable()
			return
		}
		if editing != id || textEditor.Text != el.Content {
			editing = ""
			textEditor.SetText(el.Content)
		}
		editing = id
		textEditor.Enable()
	}

	addBtn := widget.NewButtonWithIcon("Add Slide", theme.ContentAddIcon(), ed.AddSlide)
	delBtn := widget.NewButtonWithIcon("Delete Slide", theme.DeleteIcon(), ed.DeleteActiveSlide)
	newBtn := widget.NewButtonWithIcon("New Presentation", theme.DocumentCreateIcon(), func() {
		topicEntry.SetText("")
		ed.Reset()
	})
	status := widget.NewLabel("")
	toolbar := container.NewHBox(addBtn, delBtn, layout.NewSpacer(), status, newBtn)

	sidebar := container.NewBorder(widget.NewLabelWithStyle("Slides", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), nil, nil, nil, slideList)
	body := container.NewBorder(toolbar, container.NewGridWrap(fyne.NewSize(600, 90), textEditor), nil, nil, slideCanvas)
	split := container.NewHSplit(sidebar, body)
	split.Offset = 0.18
	editorScreen := split

	refreshDeck := func(p domain.Presentation, active int) {
		pres = p
		frozen := ""
		if ctrl.Dragging() && active >= 0 && active < len(p.Slides) {
			frozen = p.Slides[active].ID
		}
		thumbs = thumbCache.Images(p.Slides, frozen)
		slideList.Refresh()
		if active >= 0 && active < len(p.Slides) {
			slideList.Select(active)
		}
		if len(p.Slides) > 1 {
			delBtn.Enable()
		} else {
			delBtn.Disable()
		}
		status.SetText(fmt.Sprintf("Slide %d of %d", active+1, len(p.Slides)))
		slideCanvas.Refresh()
		if id, ok := ctrl.Selected(); ok {
			syncTextEditor(id)
		}
	}
	slideCanvas.OnDragEnd = func() { refreshDeck(store.Presentation(), store.Active()) }
	store.OnChange(func(p domain.Presentation, active int) {
		fyne.Do(func() { refreshDeck(p, active) })
	})
	ctrl.OnSelectionChange(func(id string) {
		fyne.Do(func() {
			syncTextEditor(id)
			slideCanvas.Refresh()
		})
	})

	showState := func(s session.Snapshot) {
		switch s.State {
		case session.StateLoading:
			loadingLabel.SetText(s.Topic)
			w.SetContent(loadingScreen)
		case session.StateFailed:
			errLabel.SetText(s.Message)
			w.SetContent(errorScreen)
		case session.StateEditing:
			refreshDeck(store.Presentation(), store.Active())
			w.SetContent(editorScreen)
		default:
			w.SetContent(promptScreen)
			w.Canvas().Focus(topicEntry)
		}
	}
	ed.OnStateChange(func(s session.Snapshot) { fyne.Do(func() { showState(s) }) })
	showState(ed.Snapshot())

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		ed.Reset()
	})
	if opts.Topic != "" {
		topicEntry.SetText(opts.Topic)
		startGeneration(opts.Topic)
	}
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

func applyTheme(a fyne.App, name string) {
	switch name {
	case "light":
		a.Settings().SetTheme(theme.LightTheme())
	case "dark":
		a.Settings().SetTheme(theme.DarkTheme())
	}
}
