package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/godsake999/SceneSynth/internal/audio"
	"github.com/godsake999/SceneSynth/internal/compositor"
	"github.com/godsake999/SceneSynth/internal/config"
	"github.com/godsake999/SceneSynth/internal/encode"
	"github.com/godsake999/SceneSynth/internal/preview"
	"github.com/godsake999/SceneSynth/internal/storyboard"
	"github.com/godsake999/SceneSynth/internal/system"
)

var buildVersion = "dev"

var flags struct {
	storyboard string
	output     string
	preset     string
	width      int
	height     int
	fps        int
	encoder    string
	quality    int
	zoomSpeed  float64
	smartFocus bool
	ambient    float64
	seed       int64
	stats      bool
}

func main() {
	system.InitResourceLimits()

	// Local overrides (FFMPEG_PATH and friends); absence is fine.
	godotenv.Load()

	root := &cobra.Command{
		Use:     "scenesynth",
		Short:   "Composites narrated storyboards into vertical videos",
		Version: buildVersion,
	}

	render := &cobra.Command{
		Use:   "render",
		Short: "Render a storyboard YAML into a muxed MP4",
		RunE:  runRender,
	}
	render.Flags().StringVarP(&flags.storyboard, "storyboard", "s", "storyboard.yaml", "Path to the storyboard YAML")
	render.Flags().StringVarP(&flags.output, "output", "o", "", "Output video path (auto-generated in output/ when empty)")
	render.Flags().StringVar(&flags.preset, "preset", "9:16", "Format preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	render.Flags().IntVar(&flags.width, "width", 0, "Width (overrides preset)")
	render.Flags().IntVar(&flags.height, "height", 0, "Height (overrides preset)")
	render.Flags().IntVar(&flags.fps, "fps", 30, "Frames per second")
	render.Flags().StringVar(&flags.encoder, "encoder", "auto", "Video encoder: auto, libx264, h264_nvenc, h264_videotoolbox")
	render.Flags().IntVar(&flags.quality, "quality", 23, "Quality (x264: CRF 1-51, VideoToolbox: bitrate = Q*100 kbit/s)")
	render.Flags().Float64Var(&flags.zoomSpeed, "zoom-speed", 0.001, "Ken-Burns zoom speed")
	render.Flags().BoolVar(&flags.smartFocus, "smart-focus", false, "Anchor the camera drift on the most detailed image region")
	render.Flags().Float64Var(&flags.ambient, "ambient", 0.08, "Ambient bed level (0 disables)")
	render.Flags().Int64Var(&flags.seed, "seed", 0, "Transition random seed (0 = time-based)")
	render.Flags().BoolVar(&flags.stats, "stats", false, "Print the performance report")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Play the storyboard's mixed audio without rendering video",
		RunE:  runPreview,
	}
	previewCmd.Flags().StringVarP(&flags.storyboard, "storyboard", "s", "storyboard.yaml", "Path to the storyboard YAML")
	previewCmd.Flags().Float64Var(&flags.ambient, "ambient", 0.08, "Ambient bed level (0 disables)")

	initCmd := &cobra.Command{
		Use:   "init [scenes]",
		Short: "Write a storyboard skeleton to fill in",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	initCmd.Flags().StringVarP(&flags.storyboard, "storyboard", "s", "storyboard.yaml", "Path for the new storyboard YAML")

	root.AddCommand(render, previewCmd, initCmd)

	if err := root.Execute(); err != nil {
		log.Fatalf("[-] %v", err)
	}
}

func buildConfig() config.Config {
	cfg := config.Default()
	switch flags.preset {
	case "16:9":
		cfg.Width, cfg.Height = 1280, 720
	case "9:16":
		cfg.Width, cfg.Height = 720, 1280
	case "4:5":
		cfg.Width, cfg.Height = 1080, 1350
	}
	if flags.width > 0 {
		cfg.Width = flags.width
	}
	if flags.height > 0 {
		cfg.Height = flags.height
	}
	if flags.fps > 0 {
		cfg.FPS = flags.fps
	}
	if flags.zoomSpeed > 0 {
		cfg.ZoomSpeed = flags.zoomSpeed
	}
	cfg.SmartFocus = flags.smartFocus
	cfg.AmbientLevel = flags.ambient
	if flags.quality > 0 {
		cfg.Quality = flags.quality
	}
	cfg.ShowStats = flags.stats
	cfg.BuildVersion = buildVersion

	if path := os.Getenv("FFMPEG_PATH"); path != "" {
		cfg.FFmpegPath = path
	}
	cfg.VideoEncoder = flags.encoder
	if cfg.VideoEncoder == "auto" || cfg.VideoEncoder == "" {
		cfg.VideoEncoder = system.BestH264Encoder(cfg.FFmpegPath)
		fmt.Printf("[*] Encoder: %s\n", cfg.VideoEncoder)
	}
	return cfg
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	sb, err := storyboard.Read(flags.storyboard)
	if err != nil {
		return err
	}
	req := sb.Request()

	outPath := flags.output
	if outPath == "" {
		os.MkdirAll("output", 0755)
		base := strings.TrimSuffix(filepath.Base(flags.storyboard), filepath.Ext(flags.storyboard))
		outPath = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", base, time.Now().Format("20060102_150405")))
	}
	fmt.Printf("[*] Storyboard: %s | Output: %s\n", flags.storyboard, outPath)

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("[*] Compositing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	req.OnProgress = func(f float64) { bar.Set(int(f * 100)) }

	sink, err := encode.NewFFmpegSink(cfg, outPath, audio.BusRate)
	if err != nil {
		return err
	}

	seed := flags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signalContext()
	defer stop()

	comp := compositor.New(cfg, sink, rand.New(rand.NewSource(seed)))
	artifact, err := comp.Render(ctx, req)
	if err != nil {
		return err
	}
	bar.Finish()

	fmt.Printf("[+++] Done: %s (%.2fs, %d frames)\n", artifact.Path, artifact.Duration.Seconds(), artifact.Frames)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	// No encoding happens here; skip the ffmpeg probe.
	flags.encoder = "libx264"
	cfg := buildConfig()
	// Audio-only: keep the frame loop cheap.
	cfg.Width, cfg.Height = 180, 320

	sb, err := storyboard.Read(flags.storyboard)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("[*] Previewing %s (Ctrl-C stops)\n", flags.storyboard)
	return preview.Play(ctx, cfg, sb.Request())
}

func runInit(cmd *cobra.Command, args []string) error {
	scenes := 3
	if len(args) == 1 {
		if _, err := fmt.Sscanf(args[0], "%d", &scenes); err != nil || scenes < 1 {
			return fmt.Errorf("invalid scene count %q", args[0])
		}
	}
	if _, err := os.Stat(flags.storyboard); err == nil {
		return fmt.Errorf("%s already exists", flags.storyboard)
	}
	if err := storyboard.Write(storyboard.Skeleton(scenes), flags.storyboard); err != nil {
		return err
	}
	fmt.Printf("[+++] Storyboard skeleton written: %s (%d scenes)\n", flags.storyboard, scenes)
	return nil
}
