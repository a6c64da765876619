package archive

// Foundation class names understood by the archiver and unarchiver.
const (
	ClassArray             = "NSArray"
	ClassMutableArray      = "NSMutableArray"
	ClassSet               = "NSSet"
	ClassMutableSet        = "NSMutableSet"
	ClassDictionary        = "NSDictionary"
	ClassMutableDictionary = "NSMutableDictionary"
	ClassString            = "NSString"
	ClassMutableString     = "NSMutableString"
	ClassData              = "NSData"
	ClassMutableData       = "NSMutableData"
	classObject            = "NSObject"
)

// classHierarchy lists the $classes chain written into each class
// descriptor, most derived first.
var classHierarchy = map[string][]string{
	ClassArray:             {ClassArray, classObject},
	ClassMutableArray:      {ClassMutableArray, ClassArray, classObject},
	ClassSet:               {ClassSet, classObject},
	ClassMutableSet:        {ClassMutableSet, ClassSet, classObject},
	ClassDictionary:        {ClassDictionary, classObject},
	ClassMutableDictionary: {ClassMutableDictionary, ClassDictionary, classObject},
	ClassString:            {ClassString, classObject},
	ClassMutableString:     {ClassMutableString, ClassString, classObject},
	ClassData:              {ClassData, classObject},
	ClassMutableData:       {ClassMutableData, ClassData, classObject},
}

// DefaultClasses returns the class names a permissive unarchiver accepts.
// It is a convenient starting point for WithAllowedClasses.
func DefaultClasses() []string {
	return []string{
		ClassArray, ClassMutableArray,
		ClassSet, ClassMutableSet,
		ClassDictionary, ClassMutableDictionary,
		ClassString, ClassMutableString,
		ClassData, ClassMutableData,
	}
}

func collectionClass(v Value) string {
	switch c := v.(type) {
	case *Array:
		if c.Mutable {
			return ClassMutableArray
		}
		return ClassArray
	case *Set:
		if c.Mutable {
			return ClassMutableSet
		}
		return ClassSet
	case *Dict:
		if c.Mutable {
			return ClassMutableDictionary
		}
		return ClassDictionary
	}
	return ""
}
