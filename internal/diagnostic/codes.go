package diagnostic

// Code identifies the kind of a diagnostic.
type Code string

// Mapping file structure.
const (
	CodeMappingIsNil        Code = "mapping_is_nil"
	CodeInvalidFile         Code = "invalid_file"
	CodeInvalidValue        Code = "invalid_value"
	CodeInvalidConversion   Code = "invalid_conversion"
	CodeInvalidPath         Code = "invalid_path"
	CodeNestedTarget        Code = "nested_target"
	CodeDuplicateEntity     Code = "duplicate_entity"
	CodeDuplicateKey        Code = "duplicate_key"
	CodeDuplicateMapping    Code = "duplicate_mapping"
	CodeDuplicateTarget     Code = "duplicate_target"
	CodeShadowedField       Code = "shadowed_field"
	CodeIgnoredMapped       Code = "ignored_mapped"
	CodeAssociationConflict Code = "association_conflict"
)

// Type and member resolution.
const (
	CodeUnknownMember      Code = "unknown_member"
	CodeNotAnEntityMember  Code = "not_an_entity_member"
	CodeTypeNotFound       Code = "type_not_found"
	CodeTypeNotStruct      Code = "type_not_struct"
)

// Member bindings of a type pair.
const (
	CodeUnmappedField Code = "unmapped_field"
	CodeUnmappedKey   Code = "unmapped_key"
	CodeAutoMatched   Code = "auto_matched"
)

// Role prefixes c with the role of a type in a mapping rule, e.g. source_type_not_found.
func (c Code) Role(role string) Code {
	if role == "" {
		return c
	}

	return Code(role + "_" + string(c))
}
