// Command lbvh-bench loads a Wavefront OBJ mesh, builds an LBVH over it and
// fires a batch of rays at the mesh, reporting build/traversal stats. It
// exercises the accelerator end-to-end; it is a harness, not part of the
// accelerator's core contract.
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	lbvh "github.com/achilleasa/go-lbvh"
	"github.com/achilleasa/go-lbvh/log"
	"github.com/achilleasa/go-lbvh/mesh"
	"github.com/achilleasa/go-lbvh/objloader"
	"github.com/achilleasa/go-lbvh/types"
)

var logger = log.New("lbvh-bench")

func main() {
	app := cli.NewApp()
	app.Name = "lbvh-bench"
	app.Usage = "build an LBVH over an OBJ mesh and benchmark ray traversal"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "v", Usage: "enable verbose logging"},
		cli.BoolFlag{Name: "vv", Usage: "enable debug logging"},
	}
	app.Commands = []cli.Command{
		{
			Name:      "build",
			Usage:     "load an OBJ file, build its BVH and fire a batch of synthetic rays",
			ArgsUsage: "mesh.obj",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "rays", Value: 10000, Usage: "number of synthetic rays to fire"},
				cli.Int64Flag{Name: "seed", Value: 1, Usage: "RNG seed for synthetic ray generation"},
			},
			Action: runBuild,
		},
	}
	app.Before = func(ctx *cli.Context) error {
		if ctx.GlobalBool("vv") {
			log.SetLevel(log.Debug)
		} else if ctx.GlobalBool("v") {
			log.SetLevel(log.Info)
		}
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%s", err.Error())
		os.Exit(1)
	}
}

func runBuild(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected exactly one OBJ file argument", 1)
	}
	path := ctx.Args().Get(0)

	m, err := objloader.Load(path)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("failed to load %s: %s", path, err.Error()), 1)
	}
	logger.Infof("loaded %s: %d triangles", path, m.TriangleCount())

	flatIndices := make([]uint32, 0, 6*m.TriangleCount())
	for f := 0; f < m.TriangleCount(); f++ {
		for c := 0; c < 3; c++ {
			vi := m.Indices[3*f+c]
			flatIndices = append(flatIndices, vi.P, vi.N)
		}
	}

	buildStart := time.Now()
	acc, err := lbvh.Preprocess(m.Positions, m.Normals, flatIndices)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("preprocess failed: %s", err.Error()), 1)
	}
	buildElapsed := time.Since(buildStart)

	rayCount := ctx.Int("rays")
	rays := syntheticRays(m, rayCount, ctx.Int64("seed"))

	traverseStart := time.Now()
	acc.Intersect(rays, false)
	traverseElapsed := time.Since(traverseStart)

	hits := 0
	for _, r := range rays {
		if r.IsIsect {
			hits++
		}
	}

	stats := acc.Stats()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"metric", "value"})
	table.Append([]string{"triangles", fmt.Sprintf("%d", stats.TriangleCount)})
	table.Append([]string{"internal nodes", fmt.Sprintf("%d", stats.InternalNodes)})
	table.Append([]string{"build time", buildElapsed.String()})
	table.Append([]string{"rays fired", fmt.Sprintf("%d", rayCount)})
	table.Append([]string{"rays hit", fmt.Sprintf("%d", hits)})
	table.Append([]string{"traversal time", traverseElapsed.String()})
	table.Render()

	return nil
}

// syntheticRays fires rayCount rays straight down the Z axis from random XY
// positions within the mesh's vertex bounds, a simple but deterministic
// workload for benchmarking traversal.
func syntheticRays(m *mesh.Mesh, rayCount int, seed int64) []lbvh.RayDescriptor {
	min, max := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		min = types.MinVec3(min, p)
		max = types.MaxVec3(max, p)
	}
	zStart := min[2] - (max[2]-min[2]) - 1

	rnd := rand.New(rand.NewSource(seed))
	rays := make([]lbvh.RayDescriptor, rayCount)
	for i := range rays {
		rays[i] = lbvh.RayDescriptor{
			Pos:   types.XYZ(min[0]+rnd.Float32()*(max[0]-min[0]), min[1]+rnd.Float32()*(max[1]-min[1]), zStart),
			Dir:   types.XYZ(0, 0, 1),
			Valid: true,
			TNear: 0,
			TFar:  math.MaxFloat32,
		}
	}
	return rays
}
