// Package headless walks a tour without user input, for CI checks and for
// producing screenshots of every step.
//
// The executor starts the tour on an already loaded page, then presses
// "next" until the tour completes. Delays inside the tour run on a manual
// clock that is flushed after each transition, so a walk takes no longer
// than the page round trips (plus the optional screenshot delay).
//
// For each visited step it records the step number, the selector, the
// requested and resolved tooltip position, the arrow class and the
// rendered intro text.
//
// Example usage:
//
//	cfg := headless.DefaultConfig()
//	cfg.TourFile = "onboarding.tour.yaml"
//
//	tf, _ := config.LoadTourFile(cfg.TourFile)
//	doc, _ := session.Document(nil)
//	executor, _ := headless.NewExecutor(doc, session, tf, cfg)
//
//	summary, err := executor.Run(context.Background())
//
// Artifacts:
//
// The artifact writer generates walk reports in Artifacts.OutputDir:
//   - walk.json: Full walk summary
//   - summary.md: Human-readable markdown table of the steps
//   - screenshots/step-NNN.png: One screenshot per step (browser only)
//   - handbook.pdf: The screenshots bound into one PDF
package headless
