package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/kmcrae/sociogram/pkg/analysis"
)

// ReportSource provides the latest analysis per dataset.
type ReportSource interface {
	Report(dataset string) (*analysis.Report, bool)
	Datasets() []string
}

// graphNode is the shape served for each node of an analysis.
type graphNode struct {
	Name      string
	Community string
	Degree    float64
}

// graphEdge is the shape served for each edge of an analysis.
type graphEdge struct {
	Source string
	Target string
}

// analysisView bundles a dataset with its report for resolvers.
type analysisView struct {
	Dataset string
	Report  *analysis.Report
}

// GenerateSchema builds the read-only query schema over analysis reports.
func GenerateSchema(source ReportSource) (graphql.Schema, error) {
	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if node, ok := p.Source.(graphNode); ok {
						return node.Name, nil
					}
					return nil, nil
				},
			},
			"community": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if node, ok := p.Source.(graphNode); ok {
						return node.Community, nil
					}
					return nil, nil
				},
			},
			"degree": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if node, ok := p.Source.(graphNode); ok {
						return node.Degree, nil
					}
					return nil, nil
				},
			},
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"source": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if edge, ok := p.Source.(graphEdge); ok {
						return edge.Source, nil
					}
					return nil, nil
				},
			},
			"target": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if edge, ok := p.Source.(graphEdge); ok {
						return edge.Target, nil
					}
					return nil, nil
				},
			},
		},
	})

	metricsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Metrics",
		Fields: graphql.Fields{
			"nodes":         metricsField(graphql.Int, func(m analysis.Metrics) any { return m.Nodes }),
			"edges":         metricsField(graphql.Int, func(m analysis.Metrics) any { return m.Edges }),
			"density":       metricsField(graphql.Float, func(m analysis.Metrics) any { return m.Density }),
			"avgPathLength": metricsField(graphql.Float, func(m analysis.Metrics) any { return m.AvgPathLength }),
			"modularity":    metricsField(graphql.Float, func(m analysis.Metrics) any { return m.Modularity }),
			"diameter":      metricsField(graphql.Int, func(m analysis.Metrics) any { return m.Diameter }),
			"avgDegree":     metricsField(graphql.Float, func(m analysis.Metrics) any { return m.AvgDegree }),
		},
	})

	predictionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Prediction",
		Fields: graphql.Fields{
			"source": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if pred, ok := p.Source.(analysis.Prediction); ok {
						return pred.Source, nil
					}
					return nil, nil
				},
			},
			"target": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if pred, ok := p.Source.(analysis.Prediction); ok {
						return pred.Target, nil
					}
					return nil, nil
				},
			},
			"probability": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if pred, ok := p.Source.(analysis.Prediction); ok {
						return pred.Probability, nil
					}
					return nil, nil
				},
			},
		},
	})

	analysisType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Analysis",
		Fields: graphql.Fields{
			"dataset": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if view, ok := p.Source.(analysisView); ok {
						return view.Dataset, nil
					}
					return nil, nil
				},
			},
			"metrics": &graphql.Field{
				Type: metricsType,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if view, ok := p.Source.(analysisView); ok {
						return view.Report.Metrics, nil
					}
					return nil, nil
				},
			},
			"communityCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if view, ok := p.Source.(analysisView); ok {
						return view.Report.CommunityCount, nil
					}
					return nil, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					view, ok := p.Source.(analysisView)
					if !ok {
						return nil, nil
					}
					nodes := make([]graphNode, 0, len(view.Report.Nodes))
					for _, name := range view.Report.Nodes {
						nodes = append(nodes, graphNode{
							Name:      name,
							Community: view.Report.Communities[name],
							Degree:    view.Report.DegreeCentrality[name],
						})
					}
					return nodes, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					view, ok := p.Source.(analysisView)
					if !ok {
						return nil, nil
					}
					edges := make([]graphEdge, 0, len(view.Report.Edges))
					for _, e := range view.Report.Edges {
						edges = append(edges, graphEdge{Source: e[0], Target: e[1]})
					}
					return edges, nil
				},
			},
			"predictions": &graphql.Field{
				Type: graphql.NewList(predictionType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					if view, ok := p.Source.(analysisView); ok {
						return view.Report.Predictions, nil
					}
					return nil, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"datasets": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return source.Datasets(), nil
				},
			},
			"analysis": &graphql.Field{
				Type: analysisType,
				Args: graphql.FieldConfigArgument{
					"dataset": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					dataset, _ := p.Args["dataset"].(string)
					report, ok := source.Report(dataset)
					if !ok {
						return nil, fmt.Errorf("no analysis for dataset %q", dataset)
					}
					return analysisView{Dataset: dataset, Report: report}, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

func metricsField(typ graphql.Output, get func(analysis.Metrics) any) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if m, ok := p.Source.(analysis.Metrics); ok {
				return get(m), nil
			}
			return nil, nil
		},
	}
}
