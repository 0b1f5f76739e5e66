package service

import (
	"mathpath_backend/internal/model"
	"testing"
)

func edge(concept, prereq string) model.ConceptPrerequisite {
	return model.ConceptPrerequisite{ConceptID: concept, PrerequisiteID: prereq}
}

func TestWouldCreateCycle(t *testing.T) {
	// a <- b <- c （b是a的前置，c是b的前置）
	edges := []model.ConceptPrerequisite{
		edge("a", "b"),
		edge("b", "c"),
	}

	// c 的前置设为 a：a <- b <- c <- a，成环
	if !wouldCreateCycle(edges, "c", "a") {
		t.Fatal("adding a as prerequisite of c should create a cycle")
	}

	// d 的前置设为 a：无环
	if wouldCreateCycle(edges, "d", "a") {
		t.Fatal("adding a as prerequisite of d must not be flagged as a cycle")
	}

	// 反向边 a <- c 也不成环（c 已经是 a 的传递前置）
	if wouldCreateCycle(edges, "a", "c") {
		t.Fatal("a transitive prerequisite edge is not a cycle")
	}
}

func TestWouldCreateCycleEmptyGraph(t *testing.T) {
	if wouldCreateCycle(nil, "a", "b") {
		t.Fatal("first edge can never create a cycle")
	}
}
