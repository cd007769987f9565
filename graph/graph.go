package graph

import (
	"context"
	"fmt"
)

// NodeType represents the type of a node in the graph
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeEnd       NodeType = "end"
	NodeTypeStage     NodeType = "stage"
	NodeTypeCondition NodeType = "condition"
)

// State represents the execution state passed between nodes
type State map[string]any

// NodeFunc is the function executed by a node
type NodeFunc func(context.Context, State) (State, error)

// ConditionFunc evaluates a condition and returns the branch label to follow
type ConditionFunc func(context.Context, State) (string, error)

// Node represents a node in the execution graph
type Node struct {
	Name      string
	Type      NodeType
	Execute   NodeFunc
	Condition ConditionFunc     // Only for condition nodes
	Next      string            // Successor for linear nodes
	NextMap   map[string]string // For condition nodes: branch label -> next node
}

// Graph is a single-pass execution flow: linear chains of stage nodes with
// condition nodes branching between them. Each node runs at most maxVisits
// times, guarding against miswired cycles.
type Graph struct {
	nodes     map[string]*Node
	startNode string
	maxVisits int
}

// NewGraph creates a new graph
func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		maxVisits: 10,
	}
}

func (g *Graph) validateNode(node *Node) {
	if node.Name == "" {
		panic("node name cannot be empty")
	}

	switch node.Type {
	case NodeTypeCondition:
		if node.Condition == nil {
			panic(fmt.Sprintf("condition node %s must have non-nil Condition function", node.Name))
		}
	default:
		if node.Execute == nil {
			panic(fmt.Sprintf("node %s of type %s must have non-nil Execute function", node.Name, node.Type))
		}
	}
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node *Node) {
	if _, exists := g.nodes[node.Name]; exists {
		panic(fmt.Sprintf("node %s already exists", node.Name))
	}

	g.validateNode(node)
	g.nodes[node.Name] = node

	if node.Type == NodeTypeStart {
		g.startNode = node.Name
	}
}

// SetStartNode sets the start node
func (g *Graph) SetStartNode(name string) {
	if _, exists := g.nodes[name]; !exists {
		panic(fmt.Sprintf("node %s not found", name))
	}
	g.startNode = name
}

// SetMaxVisits sets the maximum number of visits to a node
func (g *Graph) SetMaxVisits(maxVisits int) {
	g.maxVisits = maxVisits
}

// GetNode returns a node by name
func (g *Graph) GetNode(name string) (*Node, error) {
	node, exists := g.nodes[name]
	if !exists {
		return nil, fmt.Errorf("node %s not found", name)
	}
	return node, nil
}

// Execute walks the graph from the start node until an end node returns.
// The state produced by each node feeds the next one; condition nodes pick
// their successor from NextMap without mutating state.
func (g *Graph) Execute(ctx context.Context, initialState State) (State, error) {
	if g.startNode == "" {
		return nil, fmt.Errorf("start node not set")
	}

	state := initialState
	if state == nil {
		state = make(State)
	}

	visited := make(map[string]int)
	current := g.startNode

	for {
		node, exists := g.nodes[current]
		if !exists {
			return nil, fmt.Errorf("node %s not found", current)
		}

		visited[current]++
		if visited[current] > g.maxVisits {
			return nil, fmt.Errorf("infinite loop detected at node %s", current)
		}

		if node.Type == NodeTypeEnd {
			return node.Execute(ctx, state)
		}

		if node.Type == NodeTypeCondition {
			label, err := node.Condition(ctx, state)
			if err != nil {
				return nil, fmt.Errorf("error evaluating condition at node %s: %w", node.Name, err)
			}
			next := node.NextMap[label]
			if next == "" {
				return nil, fmt.Errorf("no branch %q configured for node %s", label, node.Name)
			}
			current = next
			continue
		}

		var err error
		state, err = node.Execute(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("error executing node %s: %w", node.Name, err)
		}
		if node.Next == "" {
			return nil, fmt.Errorf("no next node specified for node %s", node.Name)
		}
		current = node.Next
	}
}

// Builder helps build graphs fluently
type Builder struct {
	graph *Graph
}

// NewBuilder creates a new graph builder
func NewBuilder() *Builder {
	return &Builder{
		graph: NewGraph(),
	}
}

// AddNode adds a node to the graph
func (b *Builder) AddNode(name string, nodeType NodeType, execute NodeFunc) *Builder {
	b.graph.AddNode(&Node{
		Name:    name,
		Type:    nodeType,
		Execute: execute,
	})
	return b
}

// AddConditionNode adds a condition node
func (b *Builder) AddConditionNode(name string, condition ConditionFunc, nextMap map[string]string) *Builder {
	b.graph.AddNode(&Node{
		Name:      name,
		Type:      NodeTypeCondition,
		Condition: condition,
		NextMap:   nextMap,
	})
	return b
}

// AddEdge connects a linear node to its successor
func (b *Builder) AddEdge(from, to string) *Builder {
	if node, exists := b.graph.nodes[from]; exists {
		node.Next = to
	}
	return b
}

// SetStart sets the start node
func (b *Builder) SetStart(name string) *Builder {
	b.graph.SetStartNode(name)
	return b
}

// SetMaxVisits sets the maximum number of visits to a node
func (b *Builder) SetMaxVisits(maxVisits int) *Builder {
	b.graph.SetMaxVisits(maxVisits)
	return b
}

// Build returns the constructed graph
func (b *Builder) Build() *Graph {
	return b.graph
}
