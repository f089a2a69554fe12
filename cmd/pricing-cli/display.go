package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Victor-armando18/service-pricing/internal/domain"
	"github.com/Victor-armando18/service-pricing/internal/usecase"
	"github.com/Victor-armando18/service-pricing/pkg/pricing"
)

func displayConfiguration(w io.Writer, cfgr *pricing.Configurator, cfg pricing.Configuration, qty int, line domain.CartLine, commitErr error) {
	product := cfgr.Product()
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "   CONFIGURADOR - %s\n", product.Title)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\n[1. SELEÇÕES]")
	for _, sec := range product.Sections {
		ids := cfg.Selected(sec.ID)
		if len(ids) == 0 {
			fmt.Fprintf(w, "   %-12s -\n", sec.ID)
			continue
		}
		fmt.Fprintf(w, "   %-12s %s\n", sec.ID, strings.Join(ids, ", "))
	}

	fmt.Fprintln(w, "\n[2. PREÇO]")
	fmt.Fprintf(w, "   Unitário:    %s\n", cfgr.UnitPrice(cfg).Format())
	fmt.Fprintf(w, "   Linha (x%d): %s\n", qty, cfgr.LineTotal(cfg, qty).Format())
	fmt.Fprintf(w, "   Chave:       %s\n", cfgr.IdentityKey(cfg))

	fmt.Fprintln(w, "\n[3. COMMIT]")
	if commitErr != nil {
		fmt.Fprintf(w, "   ⚠️  BLOQUEIO: %v\n", commitErr)
	} else {
		lineJSON, _ := json.MarshalIndent(line, "   ", "  ")
		fmt.Fprintf(w, "   %s\n", lineJSON)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func displayExecutionSummary(w io.Writer, q *domain.Quote, refresh *usecase.RefreshResult) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "   PRICING ENGINE - DIAGNOSTIC")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	// 1. LOG DE EXECUÇÃO (O Caminho Percorrido)
	fmt.Fprintln(w, "\n[1. LOG DE EXECUÇÃO]")
	for _, step := range q.Trace.Steps {
		fmt.Fprintf(w, "   [%-19s] Rule: %-24s -> %s (%s)\n",
			strings.ToUpper(step.Phase), step.RuleID, step.Message, step.Amount.Format())
	}

	// 2. GUARDS (Validações de Segurança)
	fmt.Fprintln(w, "\n[2. GUARDS / BLOQUEIOS]")
	if len(q.GuardsHit) == 0 {
		fmt.Fprintln(w, "   ✅ Nenhuma violação detectada.")
	} else {
		for _, guard := range q.GuardsHit {
			fmt.Fprintf(w, "   ⚠️  BLOQUEIO: [%s] Motivo: %s\n", guard.RuleID, guard.Context)
		}
	}

	// 3. CUPÃO
	fmt.Fprintln(w, "\n[3. CUPÃO]")
	switch {
	case q.Coupon == nil:
		fmt.Fprintln(w, "   Nenhum cupão aplicado.")
	case q.CouponError != "":
		fmt.Fprintf(w, "   %s ignorado: %s\n", q.Coupon.Code, q.CouponError)
	default:
		fmt.Fprintf(w, "   %s (%s %d) -> -%s\n", q.Coupon.Code, q.Coupon.Kind, q.Coupon.Amount, q.Totals.Discount.Format())
	}

	// 4. RESUMO FINANCEIRO
	fmt.Fprintln(w, "\n[4. RESUMO]")
	fmt.Fprintf(w, "   Subtotal:    %s\n", q.Totals.Subtotal.Format())
	fmt.Fprintf(w, "   Entrega:     %s\n", q.Totals.DeliveryFee.Format())
	fmt.Fprintf(w, "   Desconto:    %s\n", q.Totals.Discount.Format())
	fmt.Fprintf(w, "   Total:       %s\n", q.Totals.Total.Format())
	fmt.Fprintf(w, "   Status:      %s\n", map[bool]string{true: "BLOQUEADO", false: "APROVADO"}[len(q.GuardsHit) > 0])
	if refresh != nil {
		fmt.Fprintf(w, "   Delta:       %v (Alterações vindas do servidor)\n", refresh.ServerDelta)
	}
	fmt.Fprintf(w, "   Versão Rule: %s\n", q.RulesVersion)

	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func displayCoupons(w io.Writer, coupons []domain.Coupon) {
	fmt.Fprintln(w, "\n[CUPÕES DISPONÍVEIS]")
	if len(coupons) == 0 {
		fmt.Fprintln(w, "   Nenhum.")
		return
	}
	for _, c := range coupons {
		fmt.Fprintf(w, "   %-12s %-10s %d\n", c.Code, c.Kind, c.Amount)
	}
}
