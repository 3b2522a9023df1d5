package debugui

import (
	"github.com/plus3/ooftn-logic/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityID   ecs.EntityID
	filterText         string
	showInactive       bool
	maxEntitiesPerPage int
	currentPage        int
}

type EntityInspectorComponent struct {
	selectedEntityID ecs.EntityID
	newSignal        string
}

type ContinuationViewerComponent struct {
	sortColumn    int
	sortAscending bool
}

type PipelineStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type QueryDebuggerComponent struct {
	required map[string]bool
	excluded map[string]bool
	cache    *QueryDebuggerCache
}
