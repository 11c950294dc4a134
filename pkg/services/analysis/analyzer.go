package analysis

import (
	"context"

	"github.com/bi-tools/kpi-pulse/pkg/models/domain"
	"github.com/bi-tools/kpi-pulse/pkg/services/insight"
	"github.com/bi-tools/kpi-pulse/pkg/services/intent"
	"github.com/bi-tools/kpi-pulse/pkg/services/query"
	"github.com/bi-tools/kpi-pulse/pkg/services/report"
	"github.com/rs/zerolog"
)

// Gateway is the single component allowed to touch the KPI store.
type Gateway interface {
	Fetch(ctx context.Context, q domain.ParameterizedQuery) (domain.KpiSeries, error)
}

// HistorySink records completed analyses. Append-only; failures are
// logged, never propagated into the pipeline result.
type HistorySink interface {
	AppendAnalysis(ctx context.Context, a domain.Analysis) error
}

// Analyzer runs the full insight pipeline: parse → synthesize → fetch →
// decompose → score → render, then hands the result to the sink.
type Analyzer struct {
	parser     *intent.Parser
	synth      *query.Synthesizer
	gateway    Gateway
	decomposer *insight.Decomposer
	engine     *insight.SignalEngine
	formatter  *report.Formatter
	sink       HistorySink
}

type Dependencies struct {
	Parser    *intent.Parser
	Gateway   Gateway
	Scoring   insight.ScoringConfig
	Formatter *report.Formatter
	Sink      HistorySink
}

func NewAnalyzer(deps Dependencies) *Analyzer {
	parser := deps.Parser
	if parser == nil {
		parser = intent.NewDefaultParser()
	}
	formatter := deps.Formatter
	if formatter == nil {
		formatter = report.NewFormatter()
	}
	return &Analyzer{
		parser:     parser,
		synth:      query.NewSynthesizer(),
		gateway:    deps.Gateway,
		decomposer: insight.NewDecomposer(),
		engine:     insight.NewSignalEngine(deps.Scoring),
		formatter:  formatter,
		sink:       deps.Sink,
	}
}

// Ask answers a free-text question. The parser is total, so the only
// failure modes are the gateway and the decomposition.
func (a *Analyzer) Ask(ctx context.Context, question string, style domain.Style) (domain.Analysis, error) {
	return a.Analyze(ctx, a.parser.ParseWithStyle(question, style))
}

// Analyze runs the pipeline for an already-structured intent.
func (a *Analyzer) Analyze(ctx context.Context, in domain.Intent) (domain.Analysis, error) {
	q, err := a.synth.Build(in)
	if err != nil {
		return domain.Analysis{}, err
	}

	series, err := a.gateway.Fetch(ctx, q)
	if err != nil {
		return domain.Analysis{}, err
	}

	contributions, err := a.decomposer.Decompose(series, in.Metric)
	if err != nil {
		return domain.Analysis{}, err
	}

	signal := a.engine.Score(series, in.Metric, contributions)
	rep := a.formatter.Render(in, contributions, signal)

	result := domain.Analysis{
		Intent:        in,
		Query:         q,
		Series:        series,
		Contributions: contributions,
		Signal:        signal,
		Report:        rep,
	}

	if a.sink != nil {
		if err := a.sink.AppendAnalysis(ctx, result); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to append analysis to history")
		}
	}

	return result, nil
}
