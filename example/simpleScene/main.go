package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/akmonengine/plume"
	"github.com/akmonengine/plume/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/profile"
)

var (
	configPath string
	duration   float64
	doProf     bool
)

// SetupScene drops a ball and spins a capsule lying on its side.
func SetupScene(world *plume.World) (ball, capsule *actor.RigidBody, err error) {
	ballTransform := actor.NewTransform()
	ballTransform.Position = mgl64.Vec3{0, 10, 0}
	ball = actor.NewRigidBody(ballTransform,
		actor.NewCollider(ballTransform, nil, &actor.Sphere{Radius: 0.5}),
	)
	if err = ball.SetMass(2); err != nil {
		return nil, nil, err
	}
	world.AddBody(ball)

	capsuleTransform := actor.NewTransform()
	capsuleTransform.Position = mgl64.Vec3{3, 0, 0}
	capsuleTransform.Rotation = mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1})
	capsule = actor.NewRigidBody(capsuleTransform,
		actor.NewCollider(capsuleTransform, nil, &actor.Capsule{Radius: 0.25, Height: 2, Direction: actor.AxisY}),
	)
	if err = capsule.SetMass(1); err != nil {
		return nil, nil, err
	}
	// floats in place, spinning around the world Y axis
	capsule.SetLinearLock(mgl64.Vec3{0, 0, 0})
	world.AddBody(capsule)

	return ball, capsule, nil
}

func main() {
	flag.StringVar(&configPath, "config", "", "Path to HJSON config file")
	flag.Float64Var(&duration, "duration", 2, "Simulated time in seconds")
	flag.BoolVar(&doProf, "prof", false, "Enable CPU profiling (debug)")
	flag.Parse()

	if doProf {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	conf := plume.DefaultConfig()
	if configPath != "" {
		var err error
		if conf, err = plume.LoadConfig(configPath); err != nil {
			fmt.Println("Could not load config:", err)
			os.Exit(1)
		}
	}

	logger := plume.NewDefaultLogger(conf.LogPrefix, conf.Debug)
	world, err := plume.NewWorld(conf, logger)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	ball, capsule, err := SetupScene(world)
	if err != nil {
		logger.Errorf("setup: %v", err)
		os.Exit(1)
	}

	// push one end of the capsule along Z, once
	tip := capsule.Pose().TransformPoint(mgl64.Vec3{0, 1, 0})
	capsule.AddForceAtPosition(mgl64.Vec3{0, 0, 5}, tip)

	frame := conf.FixedTimestep * 5
	for elapsed := 0.0; elapsed < duration; elapsed += frame {
		steps, err := world.Advance(frame)
		if err != nil {
			logger.Errorf("advance: %v", err)
			os.Exit(1)
		}
		logger.Infof("t=%.2fs steps=%d ball=%v capsule rotation=%v angular velocity=%v",
			elapsed+frame, steps,
			ball.Pose().WorldPosition(),
			capsule.Pose().WorldRotation(),
			capsule.AngularVelocity(),
		)
	}
}
