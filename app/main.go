// Package app wires the process together: parse flags, load the
// Real-Debrid catalog into sqlite, mount the FUSE filesystem, and
// serve Prometheus metrics — the same shape as the teacher's
// app/main.go, generalized from a stream.Stream-backed filesystem to
// one backed by cache.Engine.
package app

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"stream_cache/chart"
	"stream_cache/config"
	"stream_cache/database"
	"stream_cache/flags"
	fusepkg "stream_cache/fuse"
	"stream_cache/logger"
	zaplogger "stream_cache/logger/zap"
	"stream_cache/metrics"
	"stream_cache/real_debrid"
	"stream_cache/vfs"
)

func usage() {
	log.Printf("Usage of %s:\n", os.Args[0])
	log.Printf("  %s MOUNTPOINT RD_TOKEN\n", os.Args[0])
	flag.PrintDefaults()
}

func Start() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(2)
	}

	mountpoint := flag.Arg(0)
	token := flag.Arg(1)

	config.Chart = *flags.GetChart()
	params, err := config.ParseCacheParams(*flags.GetCacheParams())
	if err != nil {
		log.Printf("app: %v", err)
	}

	appLog, err := zaplogger.NewLogger("app")
	var log_ logger.Logger = logger.Noop()
	if err == nil {
		log_ = appLog
	}

	registry := metrics.NewRegistry()

	virtual := vfs.NewFileSystem()
	virtual.CacheParams = params
	virtual.LoggerFactory = zaplogger.NewFactory()
	virtual.MetricsRegistry = registry

	metricsCtx, cancelMetrics := context.WithCancel(context.Background())
	defer cancelMetrics()
	go func() {
		if err := registry.Serve(metricsCtx, *flags.GetMetricsAddr()); err != nil {
			log_.Error("metrics server stopped", err)
		}
	}()

	dashboard := chart.NewChart()
	defer dashboard.Close()

	database.Start()
	log_.Info("Database initialized")

	client := real_debrid.NewRealDebridClient(token)

	indexDebrid(client, log_)
	log_.Info("Debrid indexed")

	files, err := database.GetAllDebridFiles()
	if err != nil {
		log_.Error("Error getting all debrid files", err)
	}

	for _, file := range files {
		path := file.TorrentId + file.Path
		if _, err := virtual.Resolve(vfs.AddFileRequest{
			Path:     path,
			VideoUrl: file.Link,
			Size:     uint64(file.Bytes),
		}); err != nil {
			log_.Error(fmt.Sprintf("Error adding file %s to VFS", path), err)
		}
	}

	log_.Info("Files added to VFS")

	if err := fusepkg.Mount(mountpoint, virtual); err != nil {
		log_.Fatal("fuse mount failed", err)
	}
}

var playableExtensions = []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".webm"}

func hasPlayableFile(files []real_debrid.File) bool {
	for _, file := range files {
		for _, ext := range playableExtensions {
			if len(file.Path) >= len(ext) && file.Path[len(file.Path)-len(ext):] == ext {
				return true
			}
		}
	}
	return false
}

func indexDebrid(client *real_debrid.RealDebridClient, log_ logger.Logger) {
	torrentResponse, err := client.GetTorrents()
	if err != nil {
		log_.Error("Error getting torrents", err)
		return
	}

	for _, torrent := range *torrentResponse {
		if existing, _ := database.GetTorrentByTorrentId(torrent.ID); existing != nil {
			continue
		}
		indexTorrent(client, torrent, log_)
	}
}

func indexTorrent(client *real_debrid.RealDebridClient, torrent real_debrid.Torrent, log_ logger.Logger) {
	torrentInfo, err := client.GetTorrentInfo(torrent.ID)
	if err != nil {
		log_.Error("Error getting torrent info", err)
		return
	}

	playable := 0
	if hasPlayableFile(torrentInfo.Files) {
		playable = 1
	}

	insert := database.RealDebridTorrent{
		TorrentId: torrent.ID,
		Filename:  torrent.Filename,
		Bytes:     torrent.Bytes,
		Host:      torrent.Host,
		Split:     torrent.Split,
		Added:     torrent.Added,
		Ended:     torrent.Ended,
		Playable:  playable,
	}

	if err := database.InsertRealDebridTorrent(insert); err != nil {
		log_.Error("Error inserting torrent into database", err)
		return
	}

	if insert.Playable == 0 {
		return
	}

	filesSkipped := 0
	for index, file := range torrentInfo.Files {
		if file.Selected != 1 {
			filesSkipped++
			continue
		}

		link := ""
		if linkIndex := index - filesSkipped; linkIndex >= 0 && linkIndex < len(torrent.Links) {
			unrestricted, err := client.UnrestrictLink(torrent.Links[linkIndex])
			if err != nil {
				log_.Error("Error unrestricting link", err)
			} else {
				link = unrestricted.Download
			}
		}

		record := database.RealDebridFile{
			TorrentId: torrent.ID,
			FileId:    file.ID,
			Path:      file.Path,
			Bytes:     file.Bytes,
			Link:      link,
		}

		if err := database.InsertRealDebridFile(record); err != nil {
			log_.Error("Error inserting file into database", err)
		}
	}
}
