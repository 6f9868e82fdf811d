/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/voltsim/gospm/spm"
)

// writePlot renders the voltage and temperature traces stacked in one PNG.
func writePlot(path string, s *spm.ResultSeries) (err error) {
	voltage := plot.New()
	voltage.Title.Text = "Terminal Voltage"
	voltage.X.Label.Text = "t [s]"
	voltage.Y.Label.Text = "V [V]"
	lv, err := plotter.NewLine(seriesXY(s.Time, s.Voltage))
	if err != nil {
		return err
	}
	voltage.Add(lv, plotter.NewGrid())

	temp := plot.New()
	temp.Title.Text = "Cell Temperature"
	temp.X.Label.Text = "t [s]"
	temp.Y.Label.Text = "T [K]"
	lt, err := plotter.NewLine(seriesXY(s.Time, s.Temperature))
	if err != nil {
		return err
	}
	temp.Add(lt, plotter.NewGrid())

	img := vgimg.New(6*vg.Inch, 8*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1}
	canvases := plot.Align([][]*plot.Plot{{voltage}, {temp}}, tiles, dc)
	voltage.Draw(canvases[0][0])
	temp.Draw(canvases[1][0])
	return savePNG(path, img)
}

func savePNG(path string, img *vgimg.Canvas) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(f)
	return err
}

func seriesXY(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}
	return xys
}
