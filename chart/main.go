// Package chart is a termdash terminal dashboard for watching one
// cache.Engine live: a donut for how far the reader has seeked into
// the stream, and a linechart tracking the read-ahead window's start,
// the reader's position, and how full the window is against the hi
// watermark. Grounded on the teacher's chart/main.go, rewired from the
// old ring-buffer's ad hoc counters onto cache.Engine.TakeSnapshot.
package chart

import (
	"context"
	"fmt"

	"github.com/mum4k/termdash"
	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/container"
	"github.com/mum4k/termdash/terminal/tcell"
	"github.com/mum4k/termdash/widgets/donut"
	"github.com/mum4k/termdash/widgets/linechart"
	"github.com/mum4k/termdash/widgets/text"

	"stream_cache/config"
)

var ChartsOpen = 0

// WindowSample is one point-in-time read of a cache.Engine's window
// state, fed in by a caller polling Engine.TakeSnapshot.
type WindowSample struct {
	WindowStart int64
	LastAccess  int64
	CachedBytes int64
	HiWater     int64
}

func BytesToMegabytesRound(bytes int64) float64 {
	return float64(bytes) / 1024 / 1024
}

func appendWithLimit(slice []float64, value float64, limit int) []float64 {
	slice = append(slice, value)
	if len(slice) > limit {
		slice = slice[1:]
	}
	return slice
}

type SeekTotal struct {
	SeekPosition int64
	TotalSize    int64
}

type Chart struct {
	StreamLogChannel chan string
	BufferLogChannel chan string
	ChartDataChannel chan WindowSample
	ChartStopChannel chan struct{}

	SeekTotal chan SeekTotal
}

func NewChart() *Chart {
	chart := &Chart{
		StreamLogChannel: make(chan string),
		BufferLogChannel: make(chan string),
		ChartDataChannel: make(chan WindowSample),
		ChartStopChannel: make(chan struct{}),

		SeekTotal: make(chan SeekTotal),
	}

	if config.Chart {
		go chart.Start()
	}

	return chart
}

func (chart *Chart) Start() {
	t, err := tcell.New()
	if err != nil {
		panic(err)
	}
	defer t.Close()

	ctx, cancel := context.WithCancel(context.Background())

	lc, err := linechart.New(
		linechart.AxesCellOpts(cell.FgColor(cell.ColorWhite)),
		linechart.YLabelCellOpts(cell.FgColor(cell.ColorWhite)),
		linechart.XLabelCellOpts(cell.FgColor(cell.ColorWhite)),
		linechart.YAxisAdaptive(),
	)
	if err != nil {
		panic(err)
	}

	bufferLog, err := text.New(text.RollContent(), text.WrapAtWords())
	if err != nil {
		panic(err)
	}

	streamLog, err := text.New(text.RollContent(), text.WrapAtWords())
	if err != nil {
		panic(err)
	}

	donutSeek, err := donut.New(
		donut.Label("Seek position"),
	)
	if err != nil {
		panic(err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case streamMessage := <-chart.StreamLogChannel:
				streamLog.Write(streamMessage)
			case bufferMessage := <-chart.BufferLogChannel:
				bufferLog.Write(bufferMessage)
			}
		}
	}()

	go func() {
		lineSnapshot := 128

		windowStarts := []float64{}
		lastAccesses := []float64{}
		cachedBytes := []float64{}
		hiWaters := []float64{}

		hiWaterOpts := []linechart.SeriesOption{
			linechart.SeriesCellOpts(cell.FgColor(cell.ColorWhite)),
		}
		cachedBytesOpts := []linechart.SeriesOption{
			linechart.SeriesCellOpts(cell.FgColor(cell.ColorRed)),
		}
		lastAccessOpts := []linechart.SeriesOption{
			linechart.SeriesCellOpts(cell.FgColor(cell.ColorGreen)),
		}
		windowStartOpts := []linechart.SeriesOption{
			linechart.SeriesCellOpts(cell.FgColor(cell.ColorBlue)),
		}

		for {
			select {
			case <-ctx.Done():
				return
			case seekTotalData := <-chart.SeekTotal:
				if seekTotalData.SeekPosition == 0 && seekTotalData.TotalSize == 0 {
					continue
				}
				donutSeek.Absolute(int(seekTotalData.SeekPosition), int(seekTotalData.TotalSize))
			case sample := <-chart.ChartDataChannel:
				if sample.WindowStart == 0 && sample.LastAccess == 0 && sample.CachedBytes == 0 {
					continue
				}

				hiWaters = appendWithLimit(hiWaters, BytesToMegabytesRound(sample.HiWater), lineSnapshot)
				windowStarts = appendWithLimit(windowStarts, BytesToMegabytesRound(sample.WindowStart), lineSnapshot)
				lastAccesses = appendWithLimit(lastAccesses, BytesToMegabytesRound(sample.LastAccess), lineSnapshot)
				cachedBytes = appendWithLimit(cachedBytes, BytesToMegabytesRound(sample.CachedBytes), lineSnapshot)

				if err := lc.Series("hi_water", hiWaters, hiWaterOpts...); err != nil {
					panic(err)
				}
				if err := lc.Series("cached_bytes", cachedBytes, cachedBytesOpts...); err != nil {
					panic(err)
				}
				if err := lc.Series("last_access", lastAccesses, lastAccessOpts...); err != nil {
					panic(err)
				}
				if err := lc.Series("window_start", windowStarts, windowStartOpts...); err != nil {
					panic(err)
				}
			default:
			}
		}
	}()

	c, err := container.New(
		t,
		container.SplitVertical(
			container.Left(
				container.SplitHorizontal(
					container.Top(
						container.PlaceWidget(streamLog),
					),
					container.Bottom(
						container.PlaceWidget(bufferLog),
					),
				),
			),
			container.Right(
				container.SplitHorizontal(
					container.Top(
						container.PlaceWidget(lc),
					),
					container.Bottom(
						container.SplitVertical(
							container.Left(),
							container.Right(
								container.PlaceWidget(donutSeek),
							),
						),
					),
				),
			),
		),
	)
	if err != nil {
		panic(err)
	}

	ChartsOpen++
	defer func() { ChartsOpen-- }()

	go func() {
		<-chart.ChartStopChannel
		cancel()
	}()

	if err := termdash.Run(ctx, t, c, termdash.RedrawInterval(250)); err != nil {
		panic(err)
	}
}

func (chart *Chart) Close() {
	if !config.Chart {
		return
	}
	select {
	case chart.ChartStopChannel <- struct{}{}:
	default:
	}
}

func (chart *Chart) Log(channel chan string, message string) {
	if !config.Chart {
		fmt.Printf("%s", message)
		return
	}
	select {
	case channel <- message:
	default:
	}
}

func (chart *Chart) LogStream(message string) {
	chart.Log(chart.StreamLogChannel, message)
}

func (chart *Chart) LogBuffer(message string) {
	chart.Log(chart.BufferLogChannel, message)
}

func (chart *Chart) UpdateSeekTotal(seekPosition int64, totalSize int64) {
	if !config.Chart {
		return
	}
	select {
	case chart.SeekTotal <- SeekTotal{SeekPosition: seekPosition, TotalSize: totalSize}:
	default:
	}
}

func (chart *Chart) UpdateWindow(sample WindowSample) {
	if !config.Chart {
		return
	}
	select {
	case chart.ChartDataChannel <- sample:
	default:
	}
}
