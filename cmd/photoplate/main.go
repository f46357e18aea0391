package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"photoplate/internal/models"
	"photoplate/pkg/config"
	"photoplate/pkg/plate"
	"photoplate/pkg/session"
	"photoplate/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "photoplate.yaml", "Configuration file (YAML)")
	platePath := flag.String("plate", "", "Scanned photoplate image to open")
	linesPath := flag.String("lines", "", "Line file to load into the catalog")
	dpi := flag.Float64("dpi", 0, "Scan resolution in DPI (overrides config)")
	offset := flag.Float64("offset", 0, "Physical offset in mm (overrides config)")
	offsetSet := false
	previewPath := flag.String("preview", "", "Write a rescaled plate preview image and exit")
	renderPath := flag.String("render", "", "Write a profile plot and exit")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "offset" {
			offsetSet = true
		}
	})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sess, err := session.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	if *dpi > 0 {
		if err := sess.SetDPI(*dpi); err != nil {
			log.Fatalf("Invalid DPI: %v", err)
		}
	}
	if offsetSet {
		sess.SetOffset(*offset)
	}

	fmt.Println("================================")
	fmt.Println("PHOTOPLATE - spectral line digitizer for scanned photoplates")
	fmt.Println("================================")

	if *platePath != "" {
		if err := sess.LoadPlate(*platePath); err != nil {
			log.Fatalf("Failed to load plate: %v", err)
		}
		p := sess.Plate()
		if cfg.Output.Verbose {
			fmt.Printf("Loaded plate %s (%dx%d px, %.3f px/mm)\n",
				p.Filename, p.Width, p.Height, sess.Resolution())
		}
	}

	if *linesPath != "" {
		if err := sess.LoadLines(*linesPath); err != nil {
			log.Fatalf("Failed to load lines: %v", err)
		}
		fmt.Printf("Loaded %d line records from %s\n", sess.Catalog().Len(), *linesPath)
	}

	if *previewPath != "" {
		if sess.Plate() == nil {
			log.Fatalf("No plate loaded; use -plate")
		}
		if err := plate.SavePreview(sess.Plate(), cfg.Plate.PreviewHeight, *previewPath); err != nil {
			log.Fatalf("Failed to save preview: %v", err)
		}
		fmt.Printf("Plate preview saved to: %s\n", *previewPath)
		return
	}

	if *renderPath != "" {
		if err := render(sess, cfg, *renderPath); err != nil {
			log.Fatalf("Failed to render profile: %v", err)
		}
		fmt.Printf("Profile plot saved to: %s\n", *renderPath)
		return
	}

	runShell(sess, cfg)
}

// render saves the profile plot over the full viewport.
func render(sess *session.Session, cfg *config.Config, path string) error {
	cont := sess.Continuous()
	if cont == nil {
		return session.ErrNoPlate
	}

	cursor := -1.0
	if c, ok := sess.Cursor(); ok {
		cursor = c
	}

	r := visualization.NewRenderer(cont, sess.Catalog().Records(),
		sess.Resolution(), sess.Offset(), cfg.Plot.Width, cfg.Plot.Height)
	return r.SaveProfile(0, cont.Domain(), cursor, path)
}

// runShell drives the interactive command loop. Each command runs to
// completion before the next is read; errors are reported and the loop
// continues.
func runShell(sess *session.Session, cfg *config.Config) {
	fmt.Println("Commands: open <plate>  pos <px>  view <r0> <r1>  add  del  comment <text>")
	fmt.Println("          dpi <v>  offset <v>  list  save <file>  load <file>  render <file>  quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		verb, arg := splitCommand(scanner.Text())
		if verb == "" {
			continue
		}
		if verb == "quit" || verb == "exit" {
			return
		}

		if err := dispatch(sess, cfg, verb, arg); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func dispatch(sess *session.Session, cfg *config.Config, verb, arg string) error {
	switch verb {
	case "open":
		if err := sess.LoadPlate(arg); err != nil {
			return err
		}
		p := sess.Plate()
		fmt.Printf("Loaded plate %s (%dx%d px)\n", p.Filename, p.Width, p.Height)

	case "pos":
		px, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("pos takes a pixel position: %v", err)
		}
		if err := sess.SetCursor(px); err != nil {
			return err
		}
		phys, err := sess.CursorPhysical()
		if err != nil {
			return err
		}
		intensity, err := sess.CursorIntensity()
		if err != nil {
			return err
		}
		cur, _ := sess.Cursor()
		fmt.Printf("Cursor at %.4f mm (px %.2f), intensity %.3f\n", phys, cur, intensity)

	case "view":
		fields := strings.Fields(arg)
		if len(fields) != 2 {
			return fmt.Errorf("view takes two row numbers")
		}
		r0, err0 := strconv.Atoi(fields[0])
		r1, err1 := strconv.Atoi(fields[1])
		if err0 != nil || err1 != nil {
			return fmt.Errorf("view takes two row numbers")
		}
		if err := sess.SetViewport(models.RowRange{Start: r0, End: r1}); err != nil {
			return err
		}
		fmt.Printf("Viewport rows [%d, %d), %d profile samples\n", r0, r1, len(sess.Profile()))

	case "add":
		rec, err := sess.AddLine()
		if err != nil {
			return err
		}
		fmt.Printf("Line added at %.4f mm, intensity %.3f\n", rec.Position, rec.Intensity)

	case "del":
		rec, err := sess.DeleteNearest()
		if err != nil {
			return err
		}
		fmt.Printf("Line at %.4f mm deleted\n", rec.Position)

	case "comment":
		rec, err := sess.CommentNearest(arg)
		if err != nil {
			return err
		}
		fmt.Printf("Comment attached to line at %.4f mm\n", rec.Position)

	case "dpi":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("dpi takes a number: %v", err)
		}
		if err := sess.SetDPI(v); err != nil {
			return err
		}
		fmt.Printf("Resolution set to %.3f px/mm\n", sess.Resolution())

	case "offset":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("offset takes a number: %v", err)
		}
		sess.SetOffset(v)
		fmt.Printf("Offset set to %.4f mm\n", v)

	case "list":
		records := sess.Catalog().Records()
		if len(records) == 0 {
			fmt.Println("No lines recorded")
			break
		}
		for i, rec := range records {
			fmt.Printf("%3d  %9.4f mm  %11.3f  %s\n", i+1, rec.Position, rec.Intensity, rec.Comment)
		}

	case "save":
		if arg == "" {
			return fmt.Errorf("save takes a file path")
		}
		if err := sess.SaveLines(arg); err != nil {
			return err
		}
		fmt.Printf("%d lines saved to %s\n", sess.Catalog().Len(), arg)

	case "load":
		if arg == "" {
			return fmt.Errorf("load takes a file path")
		}
		if err := sess.LoadLines(arg); err != nil {
			return err
		}
		fmt.Printf("%d lines loaded from %s\n", sess.Catalog().Len(), arg)

	case "render":
		if arg == "" {
			return fmt.Errorf("render takes a file path")
		}
		if err := render(sess, cfg, arg); err != nil {
			return err
		}
		fmt.Printf("Profile plot saved to %s\n", arg)

	default:
		return fmt.Errorf("unknown command %q", verb)
	}
	return nil
}

// splitCommand separates the verb from its argument text.
func splitCommand(line string) (verb, arg string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return line[:i], strings.TrimSpace(line[i:])
	}
	return line, ""
}
