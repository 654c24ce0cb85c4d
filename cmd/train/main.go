// Command train fits the rain classifier on a historical observations CSV and
// writes the model, scaler and feature artifacts raincast loads.
//
// Usage:
//
//	go run ./cmd/train -data datos_procesados.csv -out model
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/couchcryptid/raincast/internal/adapter/csvsource"
	"github.com/couchcryptid/raincast/internal/domain"
	"github.com/couchcryptid/raincast/internal/model"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	defaults := model.DefaultTrainOptions()

	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	data := fs.String("data", "datos_procesados.csv", "historical observations CSV")
	out := fs.String("out", "model", "directory to write the artifacts to")
	featureList := fs.String("features", strings.Join(model.DefaultFeatures, ","), "comma-separated feature names")
	epochs := fs.Int("epochs", defaults.Epochs, "gradient descent epochs")
	lr := fs.Float64("lr", defaults.LearningRate, "learning rate")
	l2 := fs.Float64("l2", defaults.L2, "L2 regularization strength")
	if err := fs.Parse(args); err != nil {
		return err
	}

	features := splitFeatures(*featureList)
	if len(features) == 0 {
		return fmt.Errorf("no features given")
	}

	records, err := csvsource.LoadFile(*data)
	if err != nil {
		return err
	}
	cleaned, rep := domain.Clean(records)
	log.Printf("loaded %d rows (%d missing values repaired, %d rows dropped)", len(records), rep.TotalNulls(), rep.Dropped)

	x, y, skipped := model.TrainingSet(domain.BuildSeriesFeatures(cleaned), features)
	if len(x) == 0 {
		return fmt.Errorf("no complete training rows in %s", *data)
	}
	log.Printf("training on %d rows with %d features (%d rows skipped)", len(x), len(features), skipped)

	m, err := model.Train(features, x, y, model.TrainOptions{Epochs: *epochs, LearningRate: *lr, L2: *l2})
	if err != nil {
		return err
	}
	acc, err := model.Accuracy(m, x, y)
	if err != nil {
		return err
	}
	if err := model.Save(*out, m); err != nil {
		return err
	}

	rainy := 0
	for _, v := range y {
		if v {
			rainy++
		}
	}
	log.Printf("wrote %s, %s and %s to %s", model.ModelFile, model.ScalerFile, model.FeaturesFile, *out)
	fmt.Fprintf(stdout, "Rain days in training set: %d of %d (%.1f%%)\n", rainy, len(y), float64(rainy)/float64(len(y))*100)
	fmt.Fprintf(stdout, "Training accuracy: %.2f%%\n", acc*100)
	return nil
}

func splitFeatures(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
