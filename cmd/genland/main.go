package main

import (
	"flag"
	"log"

	"genland/internal/config"
	"genland/internal/export"
	"genland/internal/noise"
	"genland/internal/palette"
	"genland/internal/terrain"
	"genland/internal/volume"
)

var defaultFillColor = config.Color{
	R: volume.DefaultFillColor.R,
	G: volume.DefaultFillColor.G,
	B: volume.DefaultFillColor.B,
}

func main() {
	var (
		cfgPath   = flag.String("config", "", "path to configuration file (json or yaml)")
		vxlPath   = flag.String("vxl", "", "write the world as a legacy VXL file")
		pngPath   = flag.String("png", "", "write the shaded map as a true-color PNG")
		palPath   = flag.String("paletted", "", "write the shaded map as a palette-reduced PNG")
		jrnPath   = flag.String("journal", "", "persist voxels to an append-log journal instead of memory")
		fill      = flag.Bool("fill", false, "fill columns below the surface down to the volume floor")
		fillColor = flag.String("fillColor", defaultFillColor.String(), "below-surface fill color as #RRGGBB")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	field := noise.New(cfg.Terrain.Seed)
	m := terrain.NewSynthesizer(field, cfg.Terrain).Synthesize()
	terrain.Shade(m, terrain.Occlusion(m))

	if *pngPath != "" {
		if err := export.SavePNG(*pngPath, m.Image()); err != nil {
			log.Fatalf("save png: %v", err)
		}
		log.Printf("wrote %s", *pngPath)
	}

	// The palette path rewrites map colors in place, so the true-color
	// PNG must already be on disk by now.
	var pal *palette.Palette
	if *palPath != "" || cfg.Export.MaxColors < 256 {
		pal, err = export.QuantizeMap(m, cfg.Export.MaxColors)
		if err != nil {
			log.Fatalf("quantize map: %v", err)
		}
		log.Printf("palette reduced to %d colors", pal.Len())
	}
	if *palPath != "" {
		if err := export.SavePNG(*palPath, pal.Remap(m.Image())); err != nil {
			log.Fatalf("save paletted png: %v", err)
		}
		log.Printf("wrote %s", *palPath)
	}
	if *vxlPath != "" {
		if err := export.SaveVXL(*vxlPath, m); err != nil {
			log.Fatalf("save vxl: %v", err)
		}
		log.Printf("wrote %s", *vxlPath)
	}

	m.ScaleHeights(cfg.Terrain.MaxHeight)

	var store volume.Store
	if *jrnPath != "" {
		store, err = volume.OpenJournal(*jrnPath)
		if err != nil {
			log.Fatalf("open journal: %v", err)
		}
	} else {
		store = volume.NewMemoryStore()
	}

	written, err := terrain.Voxelize(m, store)
	if err != nil {
		log.Fatalf("voxelize: %v", err)
	}
	log.Printf("voxelized %d surface voxels", written)

	if *fill {
		var c config.Color
		if err := c.UnmarshalText([]byte(*fillColor)); err != nil {
			log.Fatalf("parse fill color: %v", err)
		}
		bounds, ok, err := volume.Bounds(store)
		if err != nil {
			log.Fatalf("volume bounds: %v", err)
		}
		if ok {
			filled, err := volume.FillBelow(store, bounds, volume.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			if err != nil {
				log.Fatalf("fill below surface: %v", err)
			}
			log.Printf("filled %d voxels below the surface", filled)
		}
	}

	if err := store.Close(); err != nil {
		log.Fatalf("close store: %v", err)
	}
}
