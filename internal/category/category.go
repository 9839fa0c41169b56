// Package category holds the static request-category registry: every
// category a user can open a ticket for, with its form schema and the
// staff roles routed to it. Loaded once at startup, never mutated.
package category

// FieldKind selects the input style of a form field.
type FieldKind string

const (
	FieldShort     FieldKind = "short"
	FieldParagraph FieldKind = "paragraph"
)

// Field is one input of a category form.
type Field struct {
	ID          string
	Label       string
	Kind        FieldKind
	Required    bool
	Placeholder string
}

// Category is one request type: display data, channel naming, staff
// routing and the ordered form schema.
type Category struct {
	ID            string
	Label         string
	Description   string
	Emoji         string
	ChannelPrefix string
	StaffRoleIDs  []string
	FormTitle     string
	Form          []Field
}

// Registry is an immutable lookup table over categories, preserving
// declaration order for menu rendering.
type Registry struct {
	ordered []Category
	byID    map[string]Category
}

func NewRegistry(categories []Category) *Registry {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return &Registry{ordered: categories, byID: byID}
}

// Lookup returns the category for id. The second result is false for an
// unknown id; there is no error path.
func (r *Registry) Lookup(id string) (Category, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// All returns categories in declaration order.
func (r *Registry) All() []Category {
	return r.ordered
}

// Defaults builds the stock category list. staffRoleIDs is injected from
// config so the registry itself stays environment-free.
func Defaults(staffRoleIDs []string) []Category {
	return []Category{
		{
			ID:            "compra",
			Label:         "🛒 Compra / Pagamento",
			Description:   "Comprar, pagar, enviar comprovante, prazo.",
			Emoji:         "🛒",
			ChannelPrefix: "compra",
			StaffRoleIDs:  staffRoleIDs,
			FormTitle:     "Compra / Pagamento",
			Form: []Field{
				{ID: "produto", Label: "Produto", Kind: FieldShort, Required: true, Placeholder: "Ex: Dark Blade / Conta / Gamepass"},
				{ID: "valor", Label: "Valor (R$)", Kind: FieldShort, Required: true, Placeholder: "Ex: 49,90"},
				{ID: "detalhes", Label: "Detalhes / Observações", Kind: FieldParagraph, Required: false, Placeholder: "Ex: urgência, horário, etc."},
			},
		},
		{
			ID:            "suporte",
			Label:         "🛠️ Suporte",
			Description:   "Problemas, dúvidas, ajuda geral.",
			Emoji:         "🛠️",
			ChannelPrefix: "suporte",
			StaffRoleIDs:  staffRoleIDs,
			FormTitle:     "Suporte",
			Form: []Field{
				{ID: "assunto", Label: "Assunto", Kind: FieldShort, Required: true, Placeholder: "Ex: dúvida / erro / pedido"},
				{ID: "descricao", Label: "Descrição", Kind: FieldParagraph, Required: true, Placeholder: "Explique com detalhes"},
			},
		},
	}
}
