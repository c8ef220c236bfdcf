package cipher

// FieldType - тип пользовательского поля записи.
type FieldType int

const (
	FieldText FieldType = iota
	FieldHidden
	FieldBoolean
	FieldLinked
)

// LinkedID - атрибут записи, на который ссылается поле типа Linked.
type LinkedID int

const (
	LinkedLoginUsername LinkedID = 100
	LinkedLoginPassword LinkedID = 101

	LinkedCardholderName LinkedID = 300
	LinkedCardExpMonth   LinkedID = 301
	LinkedCardExpYear    LinkedID = 302
	LinkedCardCode       LinkedID = 303
	LinkedCardBrand      LinkedID = 304
	LinkedCardNumber     LinkedID = 305

	LinkedIdentityTitle      LinkedID = 400
	LinkedIdentityMiddleName LinkedID = 401
	LinkedIdentityAddress1   LinkedID = 402
	LinkedIdentityAddress2   LinkedID = 403
	LinkedIdentityAddress3   LinkedID = 404
	LinkedIdentityCity       LinkedID = 405
	LinkedIdentityState      LinkedID = 406
	LinkedIdentityPostalCode LinkedID = 407
	LinkedIdentityCountry    LinkedID = 408
	LinkedIdentityCompany    LinkedID = 409
	LinkedIdentityEmail      LinkedID = 410
	LinkedIdentityPhone      LinkedID = 411
	LinkedIdentitySSN        LinkedID = 412
	LinkedIdentityUsername   LinkedID = 413
	LinkedIdentityPassport   LinkedID = 414
	LinkedIdentityLicense    LinkedID = 415
	LinkedIdentityFirstName  LinkedID = 416
	LinkedIdentityLastName   LinkedID = 417
	LinkedIdentityFullName   LinkedID = 418
)

// CustomField - именованное поле записи. Имя сопоставляется с полями страницы
// и может содержать префиксы id=, name=, label=, regex=, csv=.
type CustomField struct {
	Name     string    `json:"name"`
	Value    *string   `json:"value,omitempty"`
	Type     FieldType `json:"type"`
	LinkedID LinkedID  `json:"linkedId,omitempty"`
}

// LinkedFieldValue возвращает значение атрибута, на который ссылается поле.
// Второй результат false, если у записи нет такого атрибута.
func (c *Cipher) LinkedFieldValue(id LinkedID) (string, bool) {
	if c == nil {
		return "", false
	}
	switch c.Type {
	case TypeLogin:
		if c.Login == nil {
			return "", false
		}
		switch id {
		case LinkedLoginUsername:
			return c.Login.Username, true
		case LinkedLoginPassword:
			return c.Login.Password, true
		}
	case TypeCard:
		if c.Card == nil {
			return "", false
		}
		card := c.Card
		switch id {
		case LinkedCardholderName:
			return card.CardholderName, true
		case LinkedCardExpMonth:
			return card.ExpMonth, true
		case LinkedCardExpYear:
			return card.ExpYear, true
		case LinkedCardCode:
			return card.Code, true
		case LinkedCardBrand:
			return card.Brand, true
		case LinkedCardNumber:
			return card.Number, true
		}
	case TypeIdentity:
		if c.Identity == nil {
			return "", false
		}
		return c.Identity.linked(id)
	}
	return "", false
}

func (i *Identity) linked(id LinkedID) (string, bool) {
	switch id {
	case LinkedIdentityTitle:
		return i.Title, true
	case LinkedIdentityMiddleName:
		return i.MiddleName, true
	case LinkedIdentityAddress1:
		return i.Address1, true
	case LinkedIdentityAddress2:
		return i.Address2, true
	case LinkedIdentityAddress3:
		return i.Address3, true
	case LinkedIdentityCity:
		return i.City, true
	case LinkedIdentityState:
		return i.State, true
	case LinkedIdentityPostalCode:
		return i.PostalCode, true
	case LinkedIdentityCountry:
		return i.Country, true
	case LinkedIdentityCompany:
		return i.Company, true
	case LinkedIdentityEmail:
		return i.Email, true
	case LinkedIdentityPhone:
		return i.Phone, true
	case LinkedIdentitySSN:
		return i.SSN, true
	case LinkedIdentityUsername:
		return i.Username, true
	case LinkedIdentityPassport:
		return i.Passport, true
	case LinkedIdentityLicense:
		return i.License, true
	case LinkedIdentityFirstName:
		return i.FirstName, true
	case LinkedIdentityLastName:
		return i.LastName, true
	case LinkedIdentityFullName:
		return i.FullName(), true
	}
	return "", false
}
