package database

import (
	"context"
	"sort"

	"autoFill/internal/cipher"
)

const (
	cardRotationKey     = "card"
	identityRotationKey = "identity"
)

// VaultSource выбирает записи из расшифрованного списка, используя учёт из репозитория.
type VaultSource struct {
	ciphers      []*cipher.Cipher
	repo         *UsageRepository
	equivalent   cipher.EquivalentDomains
	defaultMatch cipher.MatchStrategy
}

func NewVaultSource(ciphers []*cipher.Cipher, repo *UsageRepository, equivalent cipher.EquivalentDomains, defaultMatch cipher.MatchStrategy) *VaultSource {
	return &VaultSource{
		ciphers:      ciphers,
		repo:         repo,
		equivalent:   equivalent,
		defaultMatch: defaultMatch,
	}
}

// ForURL - записи логина для адреса, последние использованные первыми.
func (v *VaultSource) ForURL(ctx context.Context, url string) ([]*cipher.Cipher, error) {
	domains := v.equivalent.For(url)
	var matched []*cipher.Cipher
	for _, c := range v.ciphers {
		if c == nil || c.Type != cipher.TypeLogin || c.Login == nil {
			continue
		}
		if c.Login.MatchesURI(url, domains, v.defaultMatch) {
			matched = append(matched, c)
		}
	}
	return v.withUsage(ctx, matched)
}

func (v *VaultSource) LastLaunchedForURL(ctx context.Context, url string) (*cipher.Cipher, error) {
	list, err := v.ForURL(ctx, url)
	if err != nil {
		return nil, err
	}
	var best *cipher.Cipher
	for _, c := range list {
		if c.LastLaunched.IsZero() {
			continue
		}
		if best == nil || c.LastLaunched.After(best.LastLaunched) {
			best = c
		}
	}
	return best, nil
}

func (v *VaultSource) LastUsedForURL(ctx context.Context, url string) (*cipher.Cipher, error) {
	list, err := v.ForURL(ctx, url)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// NextForURL - запись на текущей позиции перебора. Позицию сдвигает AdvanceIndex.
func (v *VaultSource) NextForURL(ctx context.Context, url string) (*cipher.Cipher, error) {
	list, err := v.ForURL(ctx, url)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return v.at(ctx, url, list)
}

func (v *VaultSource) NextCardCipher(ctx context.Context) (*cipher.Cipher, error) {
	return v.nextOfType(ctx, cipher.TypeCard, cardRotationKey)
}

func (v *VaultSource) NextIdentityCipher(ctx context.Context) (*cipher.Cipher, error) {
	return v.nextOfType(ctx, cipher.TypeIdentity, identityRotationKey)
}

// nextOfType берёт запись на текущей позиции и сразу сдвигает перебор.
func (v *VaultSource) nextOfType(ctx context.Context, t cipher.Type, key string) (*cipher.Cipher, error) {
	var of []*cipher.Cipher
	for _, c := range v.ciphers {
		if c != nil && c.Type == t {
			of = append(of, c)
		}
	}
	list, err := v.withUsage(ctx, of)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	c, err := v.at(ctx, key, list)
	if err != nil {
		return nil, err
	}
	if err := v.repo.AdvanceIndex(ctx, key); err != nil {
		return nil, err
	}
	return c, nil
}

// at берёт запись на позиции перебора. Порядок перебора - имя, затем ID,
// и не зависит от LastUsed.
func (v *VaultSource) at(ctx context.Context, key string, list []*cipher.Cipher) (*cipher.Cipher, error) {
	pos, err := v.repo.Position(ctx, key)
	if err != nil {
		return nil, err
	}
	order := make([]*cipher.Cipher, len(list))
	copy(order, list)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Name != order[j].Name {
			return order[i].Name < order[j].Name
		}
		return order[i].ID < order[j].ID
	})
	return order[pos%len(order)], nil
}

// withUsage возвращает копии записей с датами из учёта, отсортированные
// по последнему использованию, затем по имени.
func (v *VaultSource) withUsage(ctx context.Context, list []*cipher.Cipher) ([]*cipher.Cipher, error) {
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	usage, err := v.repo.Usage(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*cipher.Cipher, 0, len(list))
	for _, c := range list {
		cp := *c
		if u, ok := usage[c.ID]; ok {
			if u.LastUsed.After(cp.LastUsed) {
				cp.LastUsed = u.LastUsed
			}
			if u.LastLaunched.After(cp.LastLaunched) {
				cp.LastLaunched = u.LastLaunched
			}
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastUsed.Equal(out[j].LastUsed) {
			return out[i].LastUsed.After(out[j].LastUsed)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
