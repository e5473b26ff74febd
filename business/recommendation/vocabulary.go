package recommendation

import "marketReco/domain"

// Vocabulary assigns request-local positions to the categories and companies
// seen in one catalog snapshot plus the user's explicit preferences.
type Vocabulary struct {
	categories  []uint64
	companies   []uint64
	categoryIdx map[uint64]int
	companyIdx  map[uint64]int
}

// buildVocabulary enumerates resolved category and company ids in first-seen order:
// catalog items first, then preferred companies and preferred categories.
func buildVocabulary(items []domain.CatalogItem, prefs domain.Preferences) Vocabulary {
	v := Vocabulary{
		categoryIdx: make(map[uint64]int),
		companyIdx:  make(map[uint64]int),
	}

	for _, it := range items {
		if id, ok := it.Company.Resolved(); ok {
			v.addCompany(id)
		}
		if id, ok := it.Category.Resolved(); ok {
			v.addCategory(id)
		}
	}

	// preference ids come straight from the user's own rows; zero is never a valid id
	for _, id := range prefs.Companies {
		if id != 0 {
			v.addCompany(id)
		}
	}
	for _, id := range prefs.Categories {
		if id != 0 {
			v.addCategory(id)
		}
	}

	return v
}

func (v *Vocabulary) addCategory(id uint64) {
	if _, ok := v.categoryIdx[id]; ok {
		return
	}
	v.categoryIdx[id] = len(v.categories)
	v.categories = append(v.categories, id)
}

func (v *Vocabulary) addCompany(id uint64) {
	if _, ok := v.companyIdx[id]; ok {
		return
	}
	v.companyIdx[id] = len(v.companies)
	v.companies = append(v.companies, id)
}

func (v Vocabulary) CategoryIndex(id uint64) (int, bool) {
	i, ok := v.categoryIdx[id]
	return i, ok
}

func (v Vocabulary) CompanyIndex(id uint64) (int, bool) {
	i, ok := v.companyIdx[id]
	return i, ok
}

func (v Vocabulary) NumCategories() int { return len(v.categories) }
func (v Vocabulary) NumCompanies() int  { return len(v.companies) }

// Categories returns a copy of the ordered category ids.
func (v Vocabulary) Categories() []uint64 {
	return append([]uint64(nil), v.categories...)
}

// Companies returns a copy of the ordered company ids.
func (v Vocabulary) Companies() []uint64 {
	return append([]uint64(nil), v.companies...)
}

// identityLen is the width of the company and category one-hot blocks together.
func (v Vocabulary) identityLen() int {
	return len(v.companies) + len(v.categories)
}

// itemVectorLen is |companies| + |categories| + 2 quality slots.
func (v Vocabulary) itemVectorLen() int {
	return v.identityLen() + 2
}
