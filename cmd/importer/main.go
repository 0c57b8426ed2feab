// Command importer 清空人员集合并导入 JSON 数组形式的数据集。
//
//	go run ./cmd/importer -conf configs -file testdata/person-dataset.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"

	"github.com/go-kratos/kratos/v2/log"
)

var (
	flagconf    string
	flagfile    string
	flagtimeout time.Duration
)

func init() {
	flag.StringVar(&flagconf, "conf", "", "config path, eg: -conf configs/config.yaml")
	flag.StringVar(&flagfile, "file", "testdata/person-dataset.json", "dataset file (json array)")
	flag.DurationVar(&flagtimeout, "timeout", time.Minute, "overall import timeout")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	bundle, err := loader.Build(loader.Params{ConfPath: flagconf})
	if err != nil {
		return err
	}
	l := logger.NewLogger(logger.NewConfig(bundle.Service, &bundle.Bootstrap.Log))
	helper := log.NewHelper(log.With(l, "module", "cmd.importer"))

	ds, err := repositories.LoadDataset(flagfile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), flagtimeout)
	defer cancel()

	store, cleanup, err := database.NewStore(ctx, &bundle.Bootstrap.Data, l)
	if err != nil {
		return err
	}
	defer cleanup()

	persons, err := repositories.NewPersonStore(ctx, store, &bundle.Bootstrap.Data, l)
	if err != nil {
		return err
	}

	n, err := persons.Import(ctx, ds)
	if err != nil {
		return fmt.Errorf("import %s: %w", flagfile, err)
	}
	helper.Infof("dataset imported: file=%s driver=%s documents=%d", flagfile, store.Driver, n)
	return nil
}
