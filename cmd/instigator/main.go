package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/Azure/instigator/internal/identity"
	"github.com/Azure/instigator/internal/k8s"
	"github.com/Azure/instigator/internal/logging"
	"github.com/Azure/instigator/internal/manager"
	"github.com/Azure/instigator/internal/schematic"
	"github.com/Azure/instigator/internal/workload"
	"github.com/Azure/instigator/pkg/config"
)

// Set at build time
var buildVersion string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := ctrl.SetupSignalHandler()
	var (
		debugLogging   bool
		kubeconfigFile string
		definitionFile string
		namespace      string
		componentName  string
		instanceName   string
		timeout        time.Duration
		owners         config.OwnerReferences
		params         = config.Params{}

		mgrOpts = &manager.Options{}
	)
	flag.BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	flag.StringVar(&kubeconfigFile, "kubeconfig", "", "Path to the kubeconfig of the target apiserver. The config from the environment is used if this is not provided")
	flag.StringVar(&definitionFile, "definition", "", "Path to the component definition (YAML or JSON)")
	flag.StringVar(&namespace, "namespace", "default", "Namespace of the component instance")
	flag.StringVar(&componentName, "component", "", "Name of the component")
	flag.StringVar(&instanceName, "instance", "", "Name of the component instance, also used as the name of every generated resource")
	flag.DurationVar(&timeout, "timeout", time.Minute, "Max time spent talking to apiserver")
	flag.Var(&owners, "owner", "Owner reference of the generated resources: apiVersion=...,kind=...,name=...,uid=...[,controller=true]. May be repeated")
	flag.Var(params, "param", "Parameter values: key=value[,key=value]. May be repeated")
	mgrOpts.Bind(flag.CommandLine)
	flag.Parse()

	if definitionFile == "" || componentName == "" || instanceName == "" {
		return fmt.Errorf("--definition, --component, and --instance are required")
	}

	zl, err := logging.NewZap(debugLogging)
	if err != nil {
		return err
	}
	logger := logging.NewLoggerWithBuild(zl, buildVersion)
	ctx = logr.NewContext(ctx, logger)

	def, err := schematic.Load(definitionFile)
	if err != nil {
		return err
	}
	id := identity.New(namespace, componentName, instanceName, owners...)

	mgrOpts.Rest, err = k8s.GetRESTConfig(kubeconfigFile)
	if err != nil {
		return err
	}
	mgrOpts.Rest.UserAgent = "instigator"
	cli, err := manager.New(logger, mgrOpts)
	if err != nil {
		return fmt.Errorf("constructing client: %w", err)
	}

	return reconcile(ctx, workload.NewInstigator(cli), def, id, schematic.ParamMap(params), timeout)
}

func reconcile(ctx context.Context, inst *workload.Instigator, def *schematic.Component, id identity.Instance, params schematic.ParamMap, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := inst.Reconcile(ctx, def, id, params)
	logging.NewLogger().LogOutcome(ctx, id, def.WorkloadType, err)
	return err
}
